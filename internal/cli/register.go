// register.go implements the "farmeye register" command. Field validation
// happens locally; the registration request is only sent once every field
// passes.
package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/farmeye-dev/farmeye/internal/api"
	"github.com/farmeye-dev/farmeye/internal/log"
	"github.com/farmeye-dev/farmeye/internal/validate"
)

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account on the diagnostic service",
	RunE:  runRegister,
}

var (
	regUsername string
	regFullName string
	regEmail    string
	regPhone    string
	regAddress  string
)

func init() {
	registerCmd.Flags().StringVar(&regUsername, "username", "", "Account username")
	registerCmd.Flags().StringVar(&regFullName, "full-name", "", "Full name")
	registerCmd.Flags().StringVar(&regEmail, "email", "", "Email address")
	registerCmd.Flags().StringVar(&regPhone, "phone", "", "Phone number (digits only, at least 8)")
	registerCmd.Flags().StringVar(&regAddress, "address", "", "Postal address")
}

func runRegister(cmd *cobra.Command, args []string) error {
	e, err := newEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	username := regUsername
	if username == "" {
		if username, err = promptLine("Username"); err != nil {
			return err
		}
	}
	fullName := regFullName
	if fullName == "" {
		if fullName, err = promptLine("Full name"); err != nil {
			return err
		}
	}
	email := regEmail
	if email == "" {
		if email, err = promptLine("Email"); err != nil {
			return err
		}
	}
	phone := regPhone
	if phone == "" {
		if phone, err = promptLine("Phone"); err != nil {
			return err
		}
	}
	address := regAddress
	if address == "" {
		if address, err = promptLine("Address"); err != nil {
			return err
		}
	}

	password, err := promptPassword("Password")
	if err != nil {
		return err
	}
	confirmation, err := promptPassword("Confirm password")
	if err != nil {
		return err
	}

	profile := api.Profile{
		Username:  username,
		Password:  password,
		FullName:  fullName,
		Email:     email,
		Telefono:  phone,
		Direccion: address,
	}

	if err := validate.Registration(profile, confirmation); err != nil {
		var valErr *api.ValidationError
		if errors.As(err, &valErr) {
			return fmt.Errorf("invalid %s: %s", valErr.Field, valErr.Message)
		}
		return err
	}

	if err := e.client.Register(context.Background(), profile); err != nil {
		var subErr *api.SubmissionError
		if errors.As(err, &subErr) && subErr.Detail != "" {
			return fmt.Errorf("registration rejected: %s", subErr.Detail)
		}
		return fmt.Errorf("registration failed: %w", err)
	}

	_ = e.logger.Append(log.LogEvent{
		Event:    log.EventRegistrationSubmitted,
		Username: username,
	})

	fmt.Printf("Account %s created. Run 'farmeye login %s' to sign in.\n", username, username)
	return nil
}

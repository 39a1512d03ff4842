package api

import "time"

// Session is the credential pair returned by a successful login.
type Session struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// Profile is the registration payload. Field names follow the service's
// registration contract.
type Profile struct {
	Username  string `json:"username"`
	Password  string `json:"password"`
	FullName  string `json:"full_name"`
	Email     string `json:"email"`
	Telefono  string `json:"telefono"`
	Direccion string `json:"direccion"`
}

// DiagnosticRequest is the (image, symptom-set) pair submitted for analysis.
type DiagnosticRequest struct {
	ImageName string
	Image     []byte
	Symptoms  []string
}

// Health states a diagnosis may report.
const (
	StateHealthy = "healthy"
	StateMild    = "mild"
	StateSevere  = "severe"
)

// DiagnosisResult is the service's classification for one submission.
// Immutable once received; Confidence is validated to [0,100] at the
// client boundary before a result is surfaced.
type DiagnosisResult struct {
	Description     string   `json:"description"`
	Recommendations []string `json:"recommendations"`
	State           string   `json:"state"`
	Confidence      float64  `json:"confidence"`
}

// HistoryEntry is one past diagnosis as served by the history endpoint.
// JSON keys match the service's wire names.
type HistoryEntry struct {
	Timestamp      time.Time `json:"timestamp"`
	Resultado      string    `json:"resultado"`
	Recomendacion  string    `json:"recomendacion"`
	ImageReference string    `json:"archivo"`
}

package chat

// Mode selects the conversational persona
type Mode string

const (
	ModeCare       Mode = "care"       // skincare/body-care routine advice
	ModeMotivation Mode = "motivation" // emotional support
	ModeDiet       Mode = "diet"       // nutrition habits
)

// DefaultMode is used when a request carries no mode
const DefaultMode = ModeCare

// IsValid checks whether the mode is a known persona.
// Unknown modes are not an error anywhere in the pipeline; the prompt
// assembler falls back to a generic instruction.
func (m Mode) IsValid() bool {
	return m == ModeCare || m == ModeMotivation || m == ModeDiet
}

// String returns the mode string
func (m Mode) String() string {
	return string(m)
}

// Role tags a message author
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// IsValid checks whether the role is known
func (r Role) IsValid() bool {
	return r == RoleUser || r == RoleAssistant
}

// String returns the role string
func (r Role) String() string {
	return string(r)
}

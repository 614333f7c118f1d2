package message

// Header names carried on every outbound disturbance message.
const (
	HeaderType       = "TYPE"
	HeaderFacilityID = "FACILITY_ID"
	HeaderCategory   = "CATEGORY"

	// TypeDisturbance is the value of the TYPE header; it marks the message
	// for downstream routing in the messaging gateway.
	TypeDisturbance = "DISTURBANCE"
)

// Sender is the identity a message is sent as, for both channels.
type Sender struct {
	EmailName    string `json:"emailName" yaml:"email_name"`
	EmailAddress string `json:"emailAddress" yaml:"email_address"`
	SMSName      string `json:"smsName" yaml:"sms_name"`
}

type Header struct {
	Name   string   `json:"name"`
	Values []string `json:"values"`
}

type Party struct {
	PartyID string `json:"partyId"`
}

// Message is one outbound notification addressed to a single party. The
// messaging gateway decides the concrete channel (email or SMS) from the
// party's contact settings; this subsystem supplies both sender identities.
type Message struct {
	Sender  Sender   `json:"sender"`
	Headers []Header `json:"headers"`
	Party   Party    `json:"party"`
	Subject string   `json:"subject"`
	Body    string   `json:"message"`
}

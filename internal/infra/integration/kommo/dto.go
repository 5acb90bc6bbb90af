package kommo

type CreateLeadInput struct {
	Name           string // "<empresa> - <produto>"
	ContactName    string
	Phone          string // só dígitos
	Tags           []string
	ExternalLeadID string
}

type embeddedContacts struct {
	Embedded struct {
		Contacts []struct {
			ID int `json:"id"`
		} `json:"contacts"`
	} `json:"_embedded"`
}

type embeddedLeads struct {
	Embedded struct {
		Leads []struct {
			ID int `json:"id"`
		} `json:"leads"`
	} `json:"_embedded"`
}

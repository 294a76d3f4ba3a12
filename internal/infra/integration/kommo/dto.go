package kommo

// TagPreliminary marca no CRM os leads que vieram de formulário abandonado.
const TagPreliminary = "preliminar"

type contactPayload struct {
	Name               string        `json:"name"`
	CustomFieldsValues []customField `json:"custom_fields_values"`
}

type customField struct {
	FieldCode string       `json:"field_code"`
	Values    []fieldValue `json:"values"`
}

type fieldValue struct {
	Value    string `json:"value"`
	EnumCode string `json:"enum_code"`
}

type leadPayload struct {
	Name     string       `json:"name"`
	StatusID int          `json:"status_id,omitempty"`
	Embedded leadEmbedded `json:"_embedded"`
}

type leadEmbedded struct {
	Tags     []tag    `json:"tags"`
	Contacts []idOnly `json:"contacts"`
}

type tag struct {
	Name string `json:"name"`
}

type idOnly struct {
	ID int `json:"id"`
}

type embeddedResponse struct {
	Embedded struct {
		Contacts []idOnly `json:"contacts"`
		Leads    []idOnly `json:"leads"`
	} `json:"_embedded"`
}

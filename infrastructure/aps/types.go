package aps

import "hublens-backend/domain/core/entities"

// Data Management responses follow the JSON:API envelope: a data array of
// typed resources with attributes.

type listEnvelope struct {
	Data []resource `json:"data"`
}

type resource struct {
	Type       string             `json:"type"`
	ID         string             `json:"id"`
	Attributes resourceAttributes `json:"attributes"`
}

type resourceAttributes struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
}

// label resolves the human-readable name of a resource
func (r resource) label() string {
	if r.Attributes.DisplayName != "" {
		return r.Attributes.DisplayName
	}
	return r.Attributes.Name
}

// Model Derivative metadata envelopes

type metadataEnvelope struct {
	Data struct {
		Metadata []viewMetadata `json:"metadata"`
	} `json:"data"`
}

type viewMetadata struct {
	Name string `json:"name"`
	Role string `json:"role"`
	GUID string `json:"guid"`
}

type propertiesEnvelope struct {
	Data struct {
		Collection []entities.PropertyRecord `json:"collection"`
	} `json:"data"`
}

type objectTreeEnvelope struct {
	Data struct {
		Objects []*entities.ObjectTreeNode `json:"objects"`
	} `json:"data"`
}

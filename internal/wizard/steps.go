// Package wizard sequences the multi-step business editor. Each step projects
// the record into the body of one write; a step whose projection has not
// changed since its last successful write is not sent again.
package wizard

import (
	"encoding/json"

	"bizadmin/internal/model"
)

// Payload is the request body produced by a step.
type Payload = map[string]any

type Step struct {
	Key         string
	Title       string
	Description string
	Payload     func(model.Business) Payload
}

const (
	StepBasic     = "basic"
	StepAddresses = "addresses"
)

// DefaultSteps returns the basic data step followed by the address step.
func DefaultSteps() []Step {
	return []Step{
		{
			Key:         StepBasic,
			Title:       "Dados Básicos",
			Description: "Identificação, contato e notas",
			Payload:     basicPayload,
		},
		{
			Key:         StepAddresses,
			Title:       "Endereços",
			Description: "Locais de operação",
			Payload:     addressesPayload,
		},
	}
}

func basicPayload(b model.Business) Payload {
	addrs := b.Addresses
	if addrs == nil {
		addrs = []model.Address{}
	}
	return Payload{
		"id":          b.ID,
		"code":        b.Code,
		"created_at":  b.CreatedAt,
		"updated_at":  b.UpdatedAt,
		"deleted":     b.DeletedAt != nil && *b.DeletedAt != "",
		"disabled":    b.Disabled,
		"name":        b.Name,
		"responsible": b.Responsible,
		"email":       b.Email,
		"phone":       b.Phone,
		"cnpj":        b.CNPJ,
		"notes":       b.Notes,
		"addresses":   addrs,
	}
}

// addressesPayload relies on Address.ID being omitempty so new addresses go
// out without an id.
func addressesPayload(b model.Business) Payload {
	addrs := b.Addresses
	if addrs == nil {
		addrs = []model.Address{}
	}
	return Payload{
		"business_code": b.Code,
		"addresses":     addrs,
	}
}

// Snapshot serialises p canonically. encoding/json sorts map keys, so equal
// payloads always produce equal strings.
func Snapshot(p Payload) (string, error) {
	b, err := json.Marshal(p)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

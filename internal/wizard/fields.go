package wizard

import (
	"strings"

	"bizadmin/internal/model"
)

// Field is one editable text input of the basic step.
type Field struct {
	Key       string
	Label     string
	Multiline bool
	get       func(*model.Business) string
	set       func(*model.Business, string)
}

func (f Field) Get(b *model.Business) string    { return f.get(b) }
func (f Field) Set(b *model.Business, v string) { f.set(b, v) }

// BasicFields lists the inputs of the basic step in form order.
func BasicFields() []Field {
	return []Field{
		{Key: "name", Label: "Nome da Empresa",
			get: func(b *model.Business) string { return b.Name },
			set: func(b *model.Business, v string) { b.Name = v }},
		{Key: "email", Label: "Email",
			get: func(b *model.Business) string { return b.Email },
			set: func(b *model.Business, v string) { b.Email = v }},
		{Key: "phone", Label: "Telefone",
			get: func(b *model.Business) string { return b.Phone },
			set: func(b *model.Business, v string) { b.Phone = v }},
		{Key: "cnpj", Label: "CNPJ",
			get: func(b *model.Business) string { return b.CNPJ },
			set: func(b *model.Business, v string) { b.CNPJ = v }},
		{Key: "responsible", Label: "Responsável",
			get: func(b *model.Business) string { return b.Responsible },
			set: func(b *model.Business, v string) { b.Responsible = v }},
		{Key: "notes", Label: "Observações", Multiline: true,
			get: func(b *model.Business) string { return b.Notes },
			set: func(b *model.Business, v string) { b.Notes = v }},
	}
}

// AddressField is one input of an address card.
type AddressField struct {
	Key   string
	Label string
	get   func(*model.Address) string
	set   func(*model.Address, string)
}

func (f AddressField) Get(a *model.Address) string    { return f.get(a) }
func (f AddressField) Set(a *model.Address, v string) { f.set(a, v) }

func AddressFields() []AddressField {
	str := func(key, label string, p func(*model.Address) *string) AddressField {
		return AddressField{Key: key, Label: label,
			get: func(a *model.Address) string { return *p(a) },
			set: func(a *model.Address, v string) { *p(a) = v }}
	}
	return []AddressField{
		str("name", "Nome", func(a *model.Address) *string { return &a.Name }),
		str("code", "Código", func(a *model.Address) *string { return &a.Code }),
		str("zip_code", "CEP", func(a *model.Address) *string { return &a.ZipCode }),
		str("address", "Endereço", func(a *model.Address) *string { return &a.Address }),
		str("number", "Número", func(a *model.Address) *string { return &a.Number }),
		str("complement", "Compl.", func(a *model.Address) *string { return &a.Complement }),
		str("neighborhood", "Bairro", func(a *model.Address) *string { return &a.Neighborhood }),
		str("city", "Cidade", func(a *model.Address) *string { return &a.City }),
		str("state", "Estado", func(a *model.Address) *string { return &a.State }),
		str("country", "País", func(a *model.Address) *string { return &a.Country }),
		{Key: "disabled", Label: "Status",
			get: func(a *model.Address) string {
				if a.Disabled {
					return "Inativo"
				}
				return "Ativo"
			},
			set: func(a *model.Address, v string) {
				a.Disabled = strings.EqualFold(strings.TrimSpace(v), "inativo")
			}},
	}
}

// AddAddress appends a blank address and returns its index.
func (s *Sequencer) AddAddress() int {
	s.Record.Addresses = append(s.Record.Addresses, model.Address{})
	return len(s.Record.Addresses) - 1
}

func (s *Sequencer) RemoveAddress(i int) bool {
	if i < 0 || i >= len(s.Record.Addresses) {
		return false
	}
	out := make([]model.Address, 0, len(s.Record.Addresses)-1)
	out = append(out, s.Record.Addresses[:i]...)
	s.Record.Addresses = append(out, s.Record.Addresses[i+1:]...)
	return true
}

// ToggleAddress flips the active flag of address i.
func (s *Sequencer) ToggleAddress(i int) bool {
	if i < 0 || i >= len(s.Record.Addresses) {
		return false
	}
	s.Record.Addresses[i].Disabled = !s.Record.Addresses[i].Disabled
	return true
}

package model

import (
	"encoding/json"
	"strconv"
	"strings"
)

// ActionsKey is the reserved trailing column holding row actions.
const ActionsKey = "actions"

// Row is one server entity as a field -> primitive mapping.
type Row map[string]any

// ID returns the row identifier as a string. Rows without a usable
// identifier report false.
func (r Row) ID() (string, bool) {
	v, ok := r["id"]
	if !ok || v == nil {
		return "", false
	}
	switch t := v.(type) {
	case string:
		t = strings.TrimSpace(t)
		return t, t != ""
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case int:
		return strconv.Itoa(t), true
	case int64:
		return strconv.FormatInt(t, 10), true
	case json.Number:
		return t.String(), true
	default:
		return "", false
	}
}

// Bool reads a boolean field, accepting "true"/"false" strings.
func (r Row) Bool(key string) bool {
	switch t := r[key].(type) {
	case bool:
		return t
	case string:
		b, _ := strconv.ParseBool(t)
		return b
	default:
		return false
	}
}

// Column is a display column. Key is the identity and is unique per table.
type Column struct {
	Key      string
	Label    string
	Sortable bool
}

func (c Column) IsActions() bool { return c.Key == ActionsKey }

// Keys returns the column keys in order.
func Keys(cols []Column) []string {
	out := make([]string, 0, len(cols))
	for _, c := range cols {
		out = append(out, c.Key)
	}
	return out
}

type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

func (d Direction) Flip() Direction {
	if d == Desc {
		return Asc
	}
	return Desc
}

// Valid reports whether d is one of the two known directions.
func (d Direction) Valid() bool { return d == Asc || d == Desc }

// SortState holds at most one active sort key. An empty Key means the
// server's default order.
type SortState struct {
	Key       string
	Direction Direction
}

func (s SortState) Active() bool { return s.Key != "" }

// StatusFilter narrows list queries by the disabled flag.
type StatusFilter string

const (
	StatusAll      StatusFilter = "all"
	StatusActive   StatusFilter = "active"
	StatusInactive StatusFilter = "inactive"
)

// Next cycles all -> active -> inactive -> all.
func (f StatusFilter) Next() StatusFilter {
	switch f {
	case StatusAll, "":
		return StatusActive
	case StatusActive:
		return StatusInactive
	default:
		return StatusAll
	}
}

func (f StatusFilter) Label() string {
	switch f {
	case StatusActive:
		return "Ativo"
	case StatusInactive:
		return "Inativo"
	default:
		return "Todos"
	}
}

// ListResponse is the paginated list envelope returned by GET /business.
type ListResponse struct {
	Page     int        `json:"page"`
	Size     int        `json:"size"`
	Total    int        `json:"total"`
	LastPage int        `json:"last_page"`
	HasMore  bool       `json:"has_more"`
	Sort     string     `json:"sort,omitempty"`
	Order    string     `json:"order,omitempty"`
	Data     []Row      `json:"data"`
	Columns  ColumnSpec `json:"columns,omitempty"`
}

type Address struct {
	ID           string `json:"id,omitempty"`
	Code         string `json:"code"`
	Name         string `json:"name"`
	Address      string `json:"address"`
	Number       string `json:"number"`
	Complement   string `json:"complement"`
	Neighborhood string `json:"neighborhood"`
	City         string `json:"city"`
	State        string `json:"state"`
	Country      string `json:"country"`
	ZipCode      string `json:"zip_code"`
	Disabled     bool   `json:"disabled"`
}

type Business struct {
	ID          string    `json:"id"`
	Code        string    `json:"code"`
	CreatedAt   string    `json:"created_at"`
	UpdatedAt   string    `json:"updated_at"`
	DeletedAt   *string   `json:"deleted_at"`
	Disabled    bool      `json:"disabled"`
	Name        string    `json:"name"`
	Responsible string    `json:"responsible"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	CNPJ        string    `json:"cnpj"`
	Notes       string    `json:"notes"`
	Addresses   []Address `json:"addresses"`
}

// NormalizeBusiness makes a fetched record safe to edit: the address list is
// never nil.
func NormalizeBusiness(b Business) Business {
	if b.Addresses == nil {
		b.Addresses = []Address{}
	}
	out := make([]Address, len(b.Addresses))
	copy(out, b.Addresses)
	b.Addresses = out
	return b
}

// Clone returns a deep copy of b.
func (b Business) Clone() Business {
	c := b
	if b.DeletedAt != nil {
		v := *b.DeletedAt
		c.DeletedAt = &v
	}
	if b.Addresses != nil {
		c.Addresses = make([]Address, len(b.Addresses))
		copy(c.Addresses, b.Addresses)
	}
	return c
}

type User struct {
	ID      int    `json:"id"`
	Name    string `json:"nome"`
	Email   string `json:"email"`
	Company string `json:"empresa"`
	Role    string `json:"role"`
	Status  string `json:"status"`
}

// Row converts u to a table row keyed by its JSON field names.
func (u User) Row() Row {
	return Row{
		"id":      u.ID,
		"nome":    u.Name,
		"email":   u.Email,
		"empresa": u.Company,
		"role":    u.Role,
		"status":  u.Status,
	}
}

type Profile struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	Token        string   `json:"token"`
	RefreshToken string   `json:"refreshToken"`
	User         *Profile `json:"user,omitempty"`
}

// Package mockapi serves an in-memory implementation of the business
// administration REST API for local runs and tests.
package mockapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"bizadmin/internal/model"
	"bizadmin/internal/util/logx"
)

type Account struct {
	Profile  model.Profile
	Password string
}

type Options struct {
	// Shape selects how the list endpoint describes its columns.
	Shape    model.SpecKind
	TokenTTL time.Duration
	Accounts []Account
	Seed     int
	Now      func() time.Time
}

func DefaultAccount() Account {
	return Account{
		Profile:  model.Profile{ID: "u-1", Email: "admin@empresa.com.br", Name: "Administrador"},
		Password: "admin123",
	}
}

type session struct {
	email   string
	expires time.Time
}

type Server struct {
	store    *Store
	opts     Options
	accounts map[string]Account

	mu       sync.Mutex
	access   map[string]session
	refresh  map[string]string
	requests map[string]int
}

func New(o Options) *Server {
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.TokenTTL <= 0 {
		o.TokenTTL = 15 * time.Minute
	}
	if len(o.Accounts) == 0 {
		o.Accounts = []Account{DefaultAccount()}
	}
	s := &Server{
		store:    NewStore(o.Now),
		opts:     o,
		accounts: map[string]Account{},
		access:   map[string]session{},
		refresh:  map[string]string{},
		requests: map[string]int{},
	}
	for _, a := range o.Accounts {
		s.accounts[strings.ToLower(a.Profile.Email)] = a
	}
	s.store.Seed(o.Seed)
	return s
}

func (s *Server) Store() *Store { return s.store }

// Requests reports how many times "METHOD /path" was served.
func (s *Server) Requests(key string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requests[key]
}

// ExpireTokens invalidates every access token so the next call needs a refresh.
func (s *Server) ExpireTokens() {
	s.mu.Lock()
	s.access = map[string]session{}
	s.mu.Unlock()
}

// Handler builds the gin engine.
func (s *Server) Handler() http.Handler {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), s.count())

	r.POST("/signin", s.signIn)
	r.POST("/refresh", s.refreshToken)
	r.POST("/recovery-password", s.recoverPassword)

	auth := r.Group("/", s.authenticate())
	auth.GET("/users/profile", s.profile)
	auth.GET("/business", s.getBusiness)
	auth.POST("/business", s.createBusiness)
	auth.PUT("/business", s.updateBusiness)
	auth.DELETE("/business", s.deleteBusiness)
	auth.PUT("/business-address", s.upsertAddresses)
	return r
}

func (s *Server) count() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		key := c.Request.Method + " " + c.Request.URL.Path
		s.mu.Lock()
		s.requests[key]++
		s.mu.Unlock()
		logx.Debugf("mockapi: %s -> %d (%s)", key, c.Writer.Status(), time.Since(start).Round(time.Microsecond))
	}
}

func fail(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"message": msg})
}

func (s *Server) issue(email string) gin.H {
	tok, ref := uuid.NewString(), uuid.NewString()
	s.mu.Lock()
	s.access[tok] = session{email: email, expires: s.opts.Now().Add(s.opts.TokenTTL)}
	s.refresh[ref] = email
	s.mu.Unlock()
	return gin.H{"token": tok, "refreshToken": ref}
}

func (s *Server) authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.GetHeader("Authorization")
		tok := strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
		if tok == "" || tok == h {
			fail(c, http.StatusUnauthorized, "token ausente")
			return
		}
		s.mu.Lock()
		sess, ok := s.access[tok]
		if ok && !s.opts.Now().Before(sess.expires) {
			delete(s.access, tok)
			ok = false
		}
		s.mu.Unlock()
		if !ok {
			fail(c, http.StatusUnauthorized, "token expirado")
			return
		}
		c.Set("email", sess.email)
		c.Next()
	}
}

func (s *Server) signIn(c *gin.Context) {
	var cred model.Credentials
	if err := c.ShouldBindJSON(&cred); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	acc, ok := s.accounts[strings.ToLower(strings.TrimSpace(cred.Email))]
	if !ok || acc.Password != cred.Password {
		fail(c, http.StatusUnauthorized, "Email ou senha inválidos")
		return
	}
	out := s.issue(acc.Profile.Email)
	out["user"] = acc.Profile
	c.JSON(http.StatusOK, out)
}

func (s *Server) refreshToken(c *gin.Context) {
	var body struct {
		RefreshToken string `json:"refreshToken"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.RefreshToken == "" {
		fail(c, http.StatusBadRequest, "refreshToken obrigatório")
		return
	}
	s.mu.Lock()
	email, ok := s.refresh[body.RefreshToken]
	delete(s.refresh, body.RefreshToken)
	s.mu.Unlock()
	if !ok {
		fail(c, http.StatusUnauthorized, "refresh token inválido")
		return
	}
	c.JSON(http.StatusOK, s.issue(email))
}

func (s *Server) recoverPassword(c *gin.Context) {
	var body struct {
		Email string `json:"email"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || !strings.Contains(body.Email, "@") {
		fail(c, http.StatusBadRequest, "email inválido")
		return
	}
	// never reveal whether the account exists
	c.JSON(http.StatusOK, gin.H{"message": "Se o email existir, enviaremos as instruções."})
}

func (s *Server) profile(c *gin.Context) {
	acc, ok := s.accounts[strings.ToLower(c.GetString("email"))]
	if !ok {
		fail(c, http.StatusNotFound, "usuário não encontrado")
		return
	}
	c.JSON(http.StatusOK, acc.Profile)
}

func (s *Server) getBusiness(c *gin.Context) {
	if id := c.Query("id"); id != "" {
		b, ok := s.store.Get(id)
		if !ok {
			fail(c, http.StatusNotFound, "empresa não encontrada")
			return
		}
		c.JSON(http.StatusOK, b)
		return
	}
	p := ListParams{Search: c.Query("search"), SortBy: c.Query("sort_by"), Order: model.Direction(c.Query("order"))}
	p.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	p.Size, _ = strconv.Atoi(c.DefaultQuery("size", "10"))
	if v, err := strconv.ParseBool(c.Query("disabled")); err == nil {
		p.Disabled = &v
	}
	if p.Size <= 0 {
		p.Size = 10
	}
	if p.Page < 1 {
		p.Page = 1
	}
	items, total := s.store.List(p)
	rows := make([]model.Row, 0, len(items))
	for _, b := range items {
		rows = append(rows, toRow(b))
	}
	last := (total + p.Size - 1) / p.Size
	out := gin.H{
		"page":      p.Page,
		"size":      p.Size,
		"total":     total,
		"last_page": last,
		"has_more":  p.Page < last,
		"data":      rows,
	}
	if p.SortBy != "" {
		out["sort"] = p.SortBy
		out["order"] = string(p.Order)
	}
	if spec := s.columns(); !spec.Empty() {
		out["columns"] = spec
	}
	c.JSON(http.StatusOK, out)
}

var columnLabels = []model.ColumnPair{
	{Key: "code", Label: "Código"},
	{Key: "name", Label: "Razão social"},
	{Key: "cnpj", Label: "CNPJ"},
	{Key: "responsible", Label: "Responsável"},
	{Key: "email", Label: "E-mail"},
	{Key: "phone", Label: "Telefone"},
	{Key: "disabled", Label: "Situação"},
	{Key: "created_at", Label: "Cadastro"},
	{Key: "notes", Label: "Observações"},
}

func (s *Server) columns() model.ColumnSpec {
	switch s.opts.Shape {
	case model.SpecStrings:
		keys := make([]string, 0, len(columnLabels))
		for _, p := range columnLabels {
			keys = append(keys, p.Key)
		}
		return model.StringsSpec(keys...)
	case model.SpecPairs:
		return model.PairsSpec(columnLabels...)
	case model.SpecMapping:
		return model.MappingSpec(columnLabels...)
	}
	return model.ColumnSpec{}
}

func (s *Server) createBusiness(c *gin.Context) {
	var b model.Business
	if err := c.ShouldBindJSON(&b); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(b.Name) == "" {
		fail(c, http.StatusUnprocessableEntity, "nome obrigatório")
		return
	}
	c.JSON(http.StatusCreated, s.store.Create(b))
}

func (s *Server) updateBusiness(c *gin.Context) {
	var fields map[string]json.RawMessage
	if err := c.ShouldBindJSON(&fields); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	var id string
	if raw, ok := fields["id"]; !ok || json.Unmarshal(raw, &id) != nil || id == "" {
		fail(c, http.StatusBadRequest, "id obrigatório")
		return
	}
	b, found, err := s.store.Patch(id, fields)
	switch {
	case !found:
		fail(c, http.StatusNotFound, "empresa não encontrada")
	case err != nil:
		fail(c, http.StatusBadRequest, err.Error())
	default:
		c.JSON(http.StatusOK, b)
	}
}

func (s *Server) deleteBusiness(c *gin.Context) {
	if !s.store.Delete(c.Query("id")) {
		fail(c, http.StatusNotFound, "empresa não encontrada")
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) upsertAddresses(c *gin.Context) {
	var body struct {
		BusinessCode string          `json:"business_code"`
		Addresses    []model.Address `json:"addresses"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.BusinessCode == "" {
		fail(c, http.StatusBadRequest, "business_code obrigatório")
		return
	}
	b, ok := s.store.ReplaceAddresses(body.BusinessCode, body.Addresses)
	if !ok {
		fail(c, http.StatusNotFound, "empresa não encontrada")
		return
	}
	c.JSON(http.StatusOK, gin.H{"business_code": b.Code, "addresses": b.Addresses})
}

// ParseShape maps a flag value to a column descriptor shape.
func ParseShape(v string) (model.SpecKind, bool) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "mapping", "object":
		return model.SpecMapping, true
	case "strings":
		return model.SpecStrings, true
	case "pairs":
		return model.SpecPairs, true
	case "none":
		return model.SpecNone, true
	}
	return model.SpecNone, false
}

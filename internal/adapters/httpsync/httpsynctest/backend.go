// Package httpsynctest provides an in-process fake of the game backend for
// exercising the sync client and the engine end to end. It deduplicates
// mutating requests by X-Request-Id the way the real server does and can
// inject faults ahead of chosen requests.
package httpsynctest

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const (
	headerRequestID = "X-Request-Id"
	maxCharacters   = 5
	tokenTTL        = time.Hour
)

// Fault replaces the response of the next mutating request. With Commit set
// the request is processed first and only the acknowledgment is replaced,
// simulating a lost ack.
type Fault struct {
	Body   string
	Commit bool
	Status int
}

// Received is one request seen by the backend
type Received struct {
	Authorization  string
	IdempotencyKey string
	Method         string
	Path           string
}

type user struct {
	Email        string
	ID           string
	Name         string
	PasswordHash []byte
}

type account struct {
	Balance    int64
	Characters map[string]string
	Inventory  map[int]int
}

// Backend is the fake server
type Backend struct {
	engine *gin.Engine
	secret []byte

	mu         sync.Mutex
	accounts   map[string]*account
	catalog    map[int]*Item
	duplicates map[string]int
	faults     []Fault
	orders     map[string]bool
	received   []Received
	starting   int64
	users      map[string]user
}

// New creates a backend seeded from catalog; nil uses DefaultCatalog
func New(catalog *Catalog) *Backend {
	if catalog == nil {
		c, err := ParseCatalog([]byte(DefaultCatalog))
		if err != nil {
			panic(err)
		}
		catalog = &c
	}

	gin.SetMode(gin.TestMode)
	b := &Backend{
		accounts:   make(map[string]*account),
		catalog:    make(map[int]*Item),
		duplicates: make(map[string]int),
		orders:     make(map[string]bool),
		secret:     []byte("outpost-test-secret"),
		starting:   catalog.StartingBalance,
		users:      make(map[string]user),
	}
	for i := range catalog.Items {
		item := catalog.Items[i]
		b.catalog[item.ID] = &item
	}

	r := gin.New()
	r.Use(gin.Recovery(), b.record)
	r.POST("/auth/login", b.login)

	authed := r.Group("/", b.authenticate)
	authed.POST("/market/buy", b.mutating(b.buy))
	authed.POST("/market/sell", b.mutating(b.sell))
	authed.POST("/characters", b.mutating(b.createCharacter))
	authed.PATCH("/characters/:id", b.mutating(b.renameCharacter))
	authed.DELETE("/characters/:id", b.mutating(b.deleteCharacter))

	b.engine = r
	return b
}

// Handler returns the HTTP handler to mount in an httptest server
func (b *Backend) Handler() http.Handler {
	return b.engine
}

// AddUser registers an account
func (b *Backend) AddUser(email, name, password string) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	id := fmt.Sprintf("%d", len(b.users)+1)
	b.users[email] = user{Email: email, ID: id, Name: name, PasswordHash: hash}
	b.accounts[id] = &account{
		Balance:    b.starting,
		Characters: make(map[string]string),
		Inventory:  make(map[int]int),
	}
}

// IssueToken signs a credential for email valid for ttl (negative = expired)
func (b *Backend) IssueToken(email string, ttl time.Duration) string {
	b.mu.Lock()
	u, ok := b.users[email]
	b.mu.Unlock()
	if !ok {
		panic("unknown user " + email)
	}
	token, err := b.sign(u, ttl)
	if err != nil {
		panic(err)
	}
	return token
}

// InjectFault queues a fault for the next mutating request
func (b *Backend) InjectFault(f Fault) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.faults = append(b.faults, f)
}

// SetBalance overrides an account balance, e.g. to model spending on
// another device
func (b *Backend) SetBalance(email string, balance int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.accounts[b.users[email].ID].Balance = balance
}

// Balance returns an account balance
func (b *Backend) Balance(email string) int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.accounts[b.users[email].ID].Balance
}

// Inventory returns a copy of an account inventory
func (b *Backend) Inventory(email string) map[int]int {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make(map[int]int)
	for id, qty := range b.accounts[b.users[email].ID].Inventory {
		out[id] = qty
	}
	return out
}

// Characters returns a copy of an account's characters by id
func (b *Backend) Characters(email string) map[string]string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make(map[string]string)
	for id, name := range b.accounts[b.users[email].ID].Characters {
		out[id] = name
	}
	return out
}

// Received returns the mutating requests seen so far, in arrival order
func (b *Backend) Received() []Received {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Received(nil), b.received...)
}

// Duplicates returns how many times key was answered as a duplicate
func (b *Backend) Duplicates(key string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.duplicates[key]
}

// Committed reports whether a request with key changed server state
func (b *Backend) Committed(key string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.orders[key]
}

func (b *Backend) sign(u user, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sub":   u.ID,
		"email": u.Email,
		"name":  u.Name,
		"exp":   time.Now().Add(ttl).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(b.secret)
}

func (b *Backend) record(c *gin.Context) {
	if c.Request.Method == http.MethodGet || c.Request.URL.Path == "/auth/login" {
		c.Next()
		return
	}
	b.mu.Lock()
	b.received = append(b.received, Received{
		Authorization:  c.GetHeader("Authorization"),
		IdempotencyKey: c.GetHeader(headerRequestID),
		Method:         c.Request.Method,
		Path:           c.Request.URL.Path,
	})
	b.mu.Unlock()
	c.Next()
}

type loginBody struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (b *Backend) login(c *gin.Context) {
	var body loginBody
	if err := c.ShouldBindJSON(&body); err != nil {
		validationError(c, err.Error())
		return
	}

	b.mu.Lock()
	u, ok := b.users[body.Email]
	b.mu.Unlock()
	if !ok || bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(body.Password)) != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "Invalid credentials"})
		return
	}

	token, err := b.sign(u, tokenTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Could not issue token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}

func (b *Backend) authenticate(c *gin.Context) {
	raw := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
	if raw == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Not authenticated"})
		return
	}

	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return b.secret, nil
	})
	if err != nil {
		detail := "Invalid token"
		if errors.Is(err, jwt.ErrTokenExpired) {
			detail = "Token expired"
		}
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": detail})
		return
	}

	sub, _ := claims.GetSubject()
	c.Set("account", sub)
	c.Next()
}

// handlerFunc processes a mutating request for an account; it returns the
// status and body to send. Called with b.mu held.
type handlerFunc func(c *gin.Context, acct *account, key string) (int, any)

// mutating wraps a handler with fault injection and idempotency: a key that
// already succeeded answers duplicate without touching state
func (b *Backend) mutating(h handlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader(headerRequestID)
		if key == "" {
			validationError(c, "X-Request-Id header is required")
			return
		}

		b.mu.Lock()
		defer b.mu.Unlock()

		var fault *Fault
		if len(b.faults) > 0 {
			f := b.faults[0]
			b.faults = b.faults[1:]
			fault = &f
			if !f.Commit {
				c.Data(f.Status, "application/json", []byte(f.Body))
				return
			}
		}

		if b.orders[key] {
			b.duplicates[key]++
			c.JSON(http.StatusOK, gin.H{"ok": true, "order_id": key, "duplicate": true})
			return
		}

		acct := b.accounts[c.GetString("account")]
		if acct == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"detail": "Unknown account"})
			return
		}

		status, body := h(c, acct, key)
		if status >= 200 && status < 300 {
			b.orders[key] = true
		}
		if fault != nil {
			c.Data(fault.Status, "application/json", []byte(fault.Body))
			return
		}
		c.JSON(status, body)
	}
}

func ok(key string) gin.H {
	return gin.H{"ok": true, "order_id": key, "duplicate": false}
}

func detail(msg string) gin.H {
	return gin.H{"detail": msg}
}

func validationError(c *gin.Context, msg string) {
	c.JSON(http.StatusUnprocessableEntity, gin.H{
		"error": gin.H{"code": "validation_error", "message": msg},
	})
}

type marketBody struct {
	ItemID       int `json:"item_id" binding:"required,gt=0"`
	Quantity     int `json:"quantity" binding:"required,gt=0"`
	SettlementID int `json:"settlement_id"`
}

func (b *Backend) buy(c *gin.Context, acct *account, key string) (int, any) {
	var body marketBody
	if err := c.ShouldBindJSON(&body); err != nil {
		return http.StatusUnprocessableEntity, gin.H{"error": gin.H{"code": "validation_error", "message": err.Error()}}
	}
	item, found := b.catalog[body.ItemID]
	if !found {
		return http.StatusNotFound, detail("Item not found")
	}
	if item.Stock < body.Quantity {
		return http.StatusBadRequest, detail("Out of stock")
	}
	cost := item.Price * int64(body.Quantity)
	if acct.Balance < cost {
		return http.StatusBadRequest, detail("Insufficient funds")
	}
	item.Stock -= body.Quantity
	acct.Balance -= cost
	acct.Inventory[body.ItemID] += body.Quantity
	return http.StatusOK, ok(key)
}

func (b *Backend) sell(c *gin.Context, acct *account, key string) (int, any) {
	var body marketBody
	if err := c.ShouldBindJSON(&body); err != nil {
		return http.StatusUnprocessableEntity, gin.H{"error": gin.H{"code": "validation_error", "message": err.Error()}}
	}
	item, found := b.catalog[body.ItemID]
	if !found {
		return http.StatusNotFound, detail("Item not found")
	}
	if acct.Inventory[body.ItemID] < body.Quantity {
		return http.StatusBadRequest, detail("Not enough items")
	}
	item.Stock += body.Quantity
	acct.Balance += item.Price * int64(body.Quantity)
	acct.Inventory[body.ItemID] -= body.Quantity
	if acct.Inventory[body.ItemID] == 0 {
		delete(acct.Inventory, body.ItemID)
	}
	return http.StatusOK, ok(key)
}

type characterBody struct {
	Name string `json:"name"`
}

func checkName(name string) (int, any, bool) {
	n := utf8.RuneCountInString(name)
	if n < 3 || n > 20 {
		return http.StatusUnprocessableEntity, gin.H{"error": gin.H{
			"code":    "validation_error",
			"message": "Name must be between 3-20 characters",
		}}, false
	}
	return 0, nil, true
}

func (b *Backend) createCharacter(c *gin.Context, acct *account, key string) (int, any) {
	var body characterBody
	if err := c.ShouldBindJSON(&body); err != nil {
		return http.StatusUnprocessableEntity, gin.H{"error": gin.H{"code": "validation_error", "message": err.Error()}}
	}
	if status, resp, valid := checkName(body.Name); !valid {
		return status, resp
	}
	if len(acct.Characters) >= maxCharacters {
		return http.StatusBadRequest, detail(fmt.Sprintf("Maximum %d characters per account", maxCharacters))
	}
	// the request id doubles as the character id, matching the client's
	// local id for the optimistic character
	acct.Characters[key] = body.Name
	return http.StatusCreated, ok(key)
}

func (b *Backend) renameCharacter(c *gin.Context, acct *account, key string) (int, any) {
	var body characterBody
	if err := c.ShouldBindJSON(&body); err != nil {
		return http.StatusUnprocessableEntity, gin.H{"error": gin.H{"code": "validation_error", "message": err.Error()}}
	}
	if status, resp, valid := checkName(body.Name); !valid {
		return status, resp
	}
	id := c.Param("id")
	if _, found := acct.Characters[id]; !found {
		return http.StatusNotFound, detail("Character not found")
	}
	acct.Characters[id] = body.Name
	return http.StatusOK, ok(key)
}

func (b *Backend) deleteCharacter(c *gin.Context, acct *account, key string) (int, any) {
	id := c.Param("id")
	if _, found := acct.Characters[id]; !found {
		return http.StatusNotFound, detail("Character not found")
	}
	delete(acct.Characters, id)
	return http.StatusOK, ok(key)
}

// Package core implements code issuance, redemption and the upload
// checking pipeline over the document store. Authorization for admin
// commands is enforced at the transport boundary (bot, HTTP middleware);
// the upload pipeline checks the sender itself because the check is part
// of its contract.
package core

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"sort"
	"strings"
	"sync"
	"time"

	"cookiegate/entity"
	"cookiegate/internal/audit"
	"cookiegate/lib/sl"
)

// codeAlphabet excludes visually ambiguous characters (I, O, 0, 1).
const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

var (
	ErrNotAuthorized = errors.New("sender is not authorized")
	ErrBadExtension  = errors.New("unsupported file extension")
)

type Store interface {
	Users() (map[string]*entity.User, error)
	SaveUsers(users map[string]*entity.User) error
	Codes() (map[string]*entity.RedeemCode, error)
	SaveCodes(codes map[string]*entity.RedeemCode) error
	Admins() ([]string, error)
}

type AuthService interface {
	IsAdmin(identity string) (bool, error)
	IsAuthorized(identity string) (bool, error)
}

type Auditor interface {
	Event(category, format string, args ...interface{})
}

// Archive receives finished check reports when the optional history
// sink is enabled; nil disables archiving.
type Archive interface {
	SaveReport(report *entity.CheckReport) error
}

type Config struct {
	UploadsDir  string
	ResultsFile string
	RateLimit   int
	Delay       time.Duration
	CodeLength  int
}

type Core struct {
	mu      sync.Mutex // serializes load-mutate-save cycles on the documents
	store   Store
	auth    AuthService
	audit   Auditor
	archive Archive
	checker Checker
	parse   Parser
	cfg     Config
	log     *slog.Logger
}

func New(store Store, auth AuthService, audit Auditor, cfg Config, log *slog.Logger) *Core {
	if store == nil {
		panic("store is nil")
	}
	if cfg.RateLimit <= 0 {
		cfg.RateLimit = 5
	}
	if cfg.CodeLength <= 0 {
		cfg.CodeLength = 10
	}
	return &Core{
		store: store,
		auth:  auth,
		audit: audit,
		cfg:   cfg,
		log:   log.With(sl.Module("core")),
	}
}

func (c *Core) SetArchive(archive Archive) {
	c.archive = archive
}

func (c *Core) IsAdmin(identity string) (bool, error) {
	if c.auth == nil {
		return false, fmt.Errorf("auth service not connected")
	}
	return c.auth.IsAdmin(identity)
}

func (c *Core) IsAuthorized(identity string) (bool, error) {
	if c.auth == nil {
		return false, fmt.Errorf("auth service not connected")
	}
	return c.auth.IsAuthorized(identity)
}

// GenerateCodes draws count single-use codes, stores them keyed by code
// with the issuer recorded, and returns them in generation order. The
// codes document is persisted once after the whole batch.
func (c *Core) GenerateCodes(issuer string, count int) ([]string, error) {
	if count < 1 {
		return nil, fmt.Errorf("count must be a positive integer, got %d", count)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	codes, err := c.store.Codes()
	if err != nil {
		return nil, err
	}

	generated := make([]string, 0, count)
	for i := 0; i < count; i++ {
		code := c.randomCode()
		for {
			if _, exists := codes[code]; !exists {
				break
			}
			code = c.randomCode()
		}
		codes[code] = &entity.RedeemCode{
			Code:     code,
			IssuedBy: issuer,
			IssuedAt: time.Now().UTC(),
		}
		generated = append(generated, code)
	}

	if err = c.store.SaveCodes(codes); err != nil {
		return nil, err
	}

	c.log.Info("codes generated",
		slog.Int("count", count),
		slog.String("issuer", issuer),
	)
	if c.audit != nil {
		c.audit.Event(audit.CategoryAdmin, "generated %d codes by %s", count, issuer)
	}
	return generated, nil
}

// Redeem consumes a code for the given identity. Accepted (true) iff the
// code is outstanding; the user record is created or overwritten and the
// code removed so it can never be redeemed again. An unknown code is
// rejected with no mutation. Both checks and writes happen under the
// core mutex, so a second redemption of the same code loses cleanly.
func (c *Core) Redeem(identity, code string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	codes, err := c.store.Codes()
	if err != nil {
		return false, err
	}
	if _, ok := codes[code]; !ok {
		return false, nil
	}

	users, err := c.store.Users()
	if err != nil {
		return false, err
	}
	users[identity] = &entity.User{
		Identity:   identity,
		Redeemed:   code,
		RedeemedAt: time.Now().UTC(),
	}
	if err = c.store.SaveUsers(users); err != nil {
		return false, err
	}

	delete(codes, code)
	if err = c.store.SaveCodes(codes); err != nil {
		return false, err
	}

	c.log.Info("code redeemed",
		slog.String("identity", identity),
		slog.String("code", code),
	)
	if c.audit != nil {
		c.audit.Event(audit.CategoryRedeem, "user %s used code %s", identity, code)
	}
	return true, nil
}

// Stats returns the registered user count and the outstanding code count.
func (c *Core) Stats() (users int, codes int, err error) {
	u, err := c.store.Users()
	if err != nil {
		return 0, 0, err
	}
	cs, err := c.store.Codes()
	if err != nil {
		return 0, 0, err
	}
	return len(u), len(cs), nil
}

func (c *Core) ListUsers() (map[string]*entity.User, error) {
	return c.store.Users()
}

// ListCodes returns the outstanding codes sorted for stable output.
func (c *Core) ListCodes() ([]string, error) {
	codes, err := c.store.Codes()
	if err != nil {
		return nil, err
	}
	list := make([]string, 0, len(codes))
	for code := range codes {
		list = append(list, code)
	}
	sort.Strings(list)
	return list, nil
}

func (c *Core) randomCode() string {
	var sb strings.Builder
	for i := 0; i < c.cfg.CodeLength; i++ {
		sb.WriteByte(codeAlphabet[rand.Intn(len(codeAlphabet))])
	}
	return sb.String()
}

package auth

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/minifigstore/api/internal/user"
	"github.com/minifigstore/api/internal/utils"
)

type testEnv struct {
	db     *gorm.DB
	codec  *Codec
	users  user.Repository
	issuer *Issuer
	gate   *Middleware
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&user.User{}))

	codec := newTestCodec()
	users := user.NewRepository()
	issuer := NewIssuer(codec, users, false)

	return &testEnv{
		db:     db,
		codec:  codec,
		users:  users,
		issuer: issuer,
		gate:   NewMiddleware(db, codec, issuer),
	}
}

func (e *testEnv) seedUser(t *testing.T, mutators ...func(*user.User)) *user.User {
	t.Helper()

	hash, err := utils.HashPassword("password123")
	require.NoError(t, err)

	u := &user.User{
		FirstName:     "Ada",
		LastName:      "Lovelace",
		Username:      "ada",
		Email:         "ada@example.com",
		ContactNumber: "09171234567",
		Password:      hash,
		Role:          user.RoleCustomer,
		IsActive:      true,
		IsVerified:    true,
	}
	for _, m := range mutators {
		m(u)
	}
	require.NoError(t, e.users.Save(e.db, u))
	return u
}

// reload fetches the persisted state of a seeded user.
func (e *testEnv) reload(t *testing.T, id uint) *user.User {
	t.Helper()
	u, err := e.users.FindByID(e.db, id)
	require.NoError(t, err)
	return u
}

// okHandler records whether the downstream handler ran and with what
// identity.
type okHandler struct {
	ran      bool
	identity user.SafeUser
	hasUser  bool
}

func (h *okHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.ran = true
	h.identity, h.hasUser = CurrentUser(r)
	w.WriteHeader(http.StatusNoContent)
}

func cookieByName(t *testing.T, rec *httptest.ResponseRecorder, name string) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// countingUsers wraps a Repository to observe lookups.
type countingUsers struct {
	user.Repository
	findByID int
}

func (c *countingUsers) FindByID(db *gorm.DB, id uint) (*user.User, error) {
	c.findByID++
	return c.Repository.FindByID(db, id)
}

package auth

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/beesaferoot/myleasing/internal/models"
)

func init() {
	PasswordCost = bcrypt.MinCost
}

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{Logger: gormlogger.Discard})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}))
	return db
}

func newTokens(t *testing.T) *TokenService {
	tokens, err := NewTokenService("test-secret", time.Hour)
	require.NoError(t, err)
	return tokens
}

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("123456")
	require.NoError(t, err)
	assert.NotEqual(t, "123456", hash)
	assert.True(t, CheckPassword(hash, "123456"))
	assert.False(t, CheckPassword(hash, "654321"))
}

func TestTokenRoundTrip(t *testing.T) {
	tokens := newTokens(t)

	token, issued, err := tokens.Generate(42, "manager@leasing.test", models.RoleManager)
	require.NoError(t, err)

	claims, err := tokens.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "manager@leasing.test", claims.Email)
	assert.Equal(t, models.RoleManager, claims.Role)
	assert.Equal(t, issued.TokenID, claims.TokenID)
	assert.NotEmpty(t, claims.TokenID)
}

func TestTokenTampered(t *testing.T) {
	tokens := newTokens(t)
	token, _, err := tokens.Generate(1, "a@b.c", models.RoleManager)
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	forged := parts[0] + "." + parts[1] + "." + strings.Repeat("A", len(parts[2]))

	_, err = tokens.Validate(forged)
	assert.ErrorIs(t, err, ErrTokenInvalid)

	other, err := NewTokenService("another-secret", time.Hour)
	require.NoError(t, err)
	_, err = other.Validate(token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestTokenExpired(t *testing.T) {
	tokens := newTokens(t)
	token, _, err := tokens.Generate(1, "a@b.c", models.RoleOwner)
	require.NoError(t, err)

	tokens.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = tokens.Validate(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestNewTokenServiceRequiresKey(t *testing.T) {
	_, err := NewTokenService("", time.Hour)
	assert.Error(t, err)
	_, err = NewTokenService("key", 0)
	assert.Error(t, err)
}

func TestMemorySessionStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemorySessionStore()

	require.NoError(t, store.Revoke(ctx, "jti-1", time.Now().Add(time.Hour)))
	revoked, err := store.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = store.IsRevoked(ctx, "jti-2")
	require.NoError(t, err)
	assert.False(t, revoked)

	store.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	revoked, err = store.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestRedisSessionStore(t *testing.T) {
	ctx := context.Background()
	server := miniredis.RunT(t)

	client, err := NewRedisClient(ctx, RedisConfig{Addr: server.Addr()})
	require.NoError(t, err)
	defer client.Close()

	store := NewRedisSessionStore(client, "test")
	require.NoError(t, store.Revoke(ctx, "jti-1", time.Now().Add(time.Minute)))
	assert.True(t, server.Exists("test:revoked:jti-1"))

	revoked, err := store.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	server.FastForward(2 * time.Minute)
	revoked, err = store.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestNewRedisClientUnreachable(t *testing.T) {
	server := miniredis.RunT(t)
	addr := server.Addr()
	server.Close()

	_, err := NewRedisClient(context.Background(), RedisConfig{Addr: addr})
	assert.Error(t, err)
}

func TestAccountLoginLogout(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)

	hash, err := HashPassword("123456")
	require.NoError(t, err)
	user := models.User{FirstName: "Ana", LastName: "Lopez", Document: "1", Email: "ana@leasing.test", PasswordHash: hash, Role: models.RoleManager}
	require.NoError(t, db.Create(&user).Error)

	account := NewAccountService(db, newTokens(t), NewMemorySessionStore())

	_, err = account.Login(ctx, "ana@leasing.test", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = account.Login(ctx, "nobody@leasing.test", "123456")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	session, err := account.Login(ctx, " ANA@leasing.test ", "123456")
	require.NoError(t, err)
	assert.Equal(t, user.ID, session.Claims.UserID)

	claims, err := account.Authenticate(ctx, session.Token)
	require.NoError(t, err)
	assert.Equal(t, models.RoleManager, claims.Role)

	require.NoError(t, account.Logout(ctx, session.Token))
	_, err = account.Authenticate(ctx, session.Token)
	assert.ErrorIs(t, err, ErrTokenRevoked)

	assert.NoError(t, account.Logout(ctx, "garbage"))
}

func TestAuthenticateReadsCurrentUser(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)

	hash, err := HashPassword("123456")
	require.NoError(t, err)
	user := models.User{FirstName: "Luis", LastName: "Gomez", Document: "2", Email: "luis@leasing.test", PasswordHash: hash, Role: models.RoleManager}
	require.NoError(t, db.Create(&user).Error)

	account := NewAccountService(db, newTokens(t), NewMemorySessionStore())
	session, err := account.Login(ctx, "luis@leasing.test", "123456")
	require.NoError(t, err)

	require.NoError(t, db.Model(&user).Update("role", models.RoleLessee).Error)
	claims, err := account.Authenticate(ctx, session.Token)
	require.NoError(t, err)
	assert.Equal(t, models.RoleLessee, claims.Role)

	require.NoError(t, db.Delete(&user).Error)
	_, err = account.Authenticate(ctx, session.Token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

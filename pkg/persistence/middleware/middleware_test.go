package middleware_test

import (
	"context"
	"crypto/rand"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	hposconfig "github.com/aretw0/hpos-config"
	"github.com/aretw0/hpos-config/pkg/adapters/memory"
	"github.com/aretw0/hpos-config/pkg/domain"
	"github.com/aretw0/hpos-config/pkg/persistence/middleware"
	"github.com/aretw0/hpos-config/pkg/ports"
	"github.com/aretw0/hpos-config/pkg/schema"
)

func generateKey(t *testing.T) []byte {
	t.Helper()
	k := make([]byte, 32)
	if _, err := io.ReadFull(rand.Reader, k); err != nil {
		t.Fatal(err)
	}
	return k
}

func encrypted(t *testing.T, cfg middleware.EncryptionConfig) middleware.Middleware {
	t.Helper()
	mw, err := middleware.NewEncryptionMiddleware(cfg)
	require.NoError(t, err)
	return mw
}

func invalidReport(t *testing.T) *domain.Report {
	t.Helper()
	doc := []byte(`{"v1": {"seed": "s", "settings": {"admin": {"email": "nope", "public_key": "k"}}}}`)
	return domain.NewReport(doc, hposconfig.CheckBytes(doc), time.Now())
}

func TestEncryptionMiddleware_Contract(t *testing.T) {
	store := encrypted(t, middleware.EncryptionConfig{ActiveKey: generateKey(t)})(memory.NewStore())
	ports.RunReportStoreContract(t, store)
}

func TestEncryptionMiddleware_Roundtrip(t *testing.T) {
	underlying := memory.NewStore()
	secure := encrypted(t, middleware.EncryptionConfig{ActiveKey: generateKey(t)})(underlying)
	ctx := context.Background()

	report := invalidReport(t)
	require.NoError(t, secure.Save(ctx, report))

	stored, err := underlying.Load(ctx, report.ID)
	require.NoError(t, err)
	assert.Equal(t, "Encrypted", stored.Kind)
	assert.Empty(t, stored.Path)
	assert.Empty(t, stored.Got)
	assert.NotContains(t, stored.Message, "admin.email")
	assert.Equal(t, report.Valid, stored.Valid)

	loaded, err := secure.Load(ctx, report.ID)
	require.NoError(t, err)
	assert.Equal(t, report.Kind, loaded.Kind)
	assert.Equal(t, report.Path, loaded.Path)
	assert.Equal(t, report.Message, loaded.Message)
	assert.Equal(t, `"nope"`, loaded.Got)
}

func TestEncryptionMiddleware_KeyRotation(t *testing.T) {
	underlying := memory.NewStore()
	oldKey, newKey := generateKey(t), generateKey(t)
	ctx := context.Background()

	report := invalidReport(t)
	require.NoError(t, encrypted(t, middleware.EncryptionConfig{ActiveKey: oldKey})(underlying).Save(ctx, report))

	_, err := encrypted(t, middleware.EncryptionConfig{ActiveKey: newKey})(underlying).Load(ctx, report.ID)
	assert.Error(t, err, "new key alone must not decrypt")

	rotated := encrypted(t, middleware.EncryptionConfig{ActiveKey: newKey, FallbackKeys: [][]byte{oldKey}})(underlying)
	loaded, err := rotated.Load(ctx, report.ID)
	require.NoError(t, err)
	assert.Equal(t, report.Path, loaded.Path)
}

func TestEncryptionMiddleware_RejectsPlainReports(t *testing.T) {
	underlying := memory.NewStore()
	report := invalidReport(t)
	require.NoError(t, underlying.Save(context.Background(), report))

	secure := encrypted(t, middleware.EncryptionConfig{ActiveKey: generateKey(t)})(underlying)
	_, err := secure.Load(context.Background(), report.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "envelope")

	_, err = secure.Load(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrReportNotFound)
}

func TestEncryptionMiddleware_KeySize(t *testing.T) {
	_, err := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: []byte("short")})
	assert.Error(t, err)
}

func redacting(t *testing.T, patterns ...string) middleware.Middleware {
	t.Helper()
	mw, err := middleware.NewRedactMiddleware(patterns)
	require.NoError(t, err)
	return mw
}

func TestRedactMiddleware_ValueMismatch(t *testing.T) {
	underlying := memory.NewStore()
	store := redacting(t, `\.seed$`)(underlying)
	ctx := context.Background()

	s := schema.Object(schema.Field("seed", schema.Lit("expected")), schema.Field("mode", schema.Lit("a")))

	secret := []byte(`{"seed": "hunter2", "mode": "a"}`)
	report := domain.NewReport(secret, schema.ValidateJSON(s, string(secret)), time.Now())
	require.Equal(t, "ValueMismatch", report.Kind)
	require.Contains(t, report.Message, "hunter2")

	require.NoError(t, store.Save(ctx, report))
	stored, err := underlying.Load(ctx, report.ID)
	require.NoError(t, err)
	assert.Equal(t, `Expected .seed == "expected", got ***`, stored.Message)
	assert.Equal(t, middleware.Mask, stored.Got)
	assert.Contains(t, report.Message, "hunter2", "the caller's report must not be modified")

	other := []byte(`{"seed": "expected", "mode": "b"}`)
	report = domain.NewReport(other, schema.ValidateJSON(s, string(other)), time.Now())
	require.NoError(t, store.Save(ctx, report))
	stored, err = underlying.Load(ctx, report.ID)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(stored.Message, `got "b"`), stored.Message)
	assert.Equal(t, `"b"`, stored.Got)
}

func TestRedactMiddleware_ValueContainingSeparator(t *testing.T) {
	underlying := memory.NewStore()
	store := redacting(t, `\.token`)(underlying)
	ctx := context.Background()

	s := schema.Object(schema.Field("token", schema.Lit("abc")))
	doc := []byte(`{"token": "hunter2-secret, got x"}`)
	report := domain.NewReport(doc, schema.ValidateJSON(s, string(doc)), time.Now())

	require.NoError(t, store.Save(ctx, report))
	stored, err := underlying.Load(ctx, report.ID)
	require.NoError(t, err)
	assert.Equal(t, `Expected .token == "abc", got ***`, stored.Message)
	assert.NotContains(t, stored.Message, "hunter2")
	assert.NotContains(t, stored.Got, "hunter2")
}

func TestRedactMiddleware_ConfigEmail(t *testing.T) {
	underlying := memory.NewStore()
	store := redacting(t, `\.admin\.email$`)(underlying)
	ctx := context.Background()

	report := invalidReport(t)
	require.Equal(t, "PredicateFailed", report.Kind)
	require.Equal(t, `"nope"`, report.Got)

	require.NoError(t, store.Save(ctx, report))
	stored, err := underlying.Load(ctx, report.ID)
	require.NoError(t, err)
	assert.Equal(t, middleware.Mask, stored.Got)
	assert.Equal(t, report.Message, stored.Message)
	assert.NotContains(t, stored.Message, "nope")
}

func TestRedactMiddleware_UnquotedValueDropsMessage(t *testing.T) {
	underlying := memory.NewStore()
	store := redacting(t, "secret")(underlying)
	ctx := context.Background()

	report := &domain.Report{ID: "r", Kind: "Custom", Path: ".secret", Got: "pw", Message: "pw was rejected", CheckedAt: time.Now()}
	require.NoError(t, store.Save(ctx, report))
	stored, err := underlying.Load(ctx, "r")
	require.NoError(t, err)
	assert.Equal(t, middleware.Mask, stored.Message)
	assert.Equal(t, middleware.Mask, stored.Got)
}

func TestRedactMiddleware_InvalidPattern(t *testing.T) {
	_, err := middleware.NewRedactMiddleware([]string{`\.ok$`, "("})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid redact pattern "("`)
}

func TestChain(t *testing.T) {
	underlying := memory.NewStore()
	store := middleware.Chain(underlying,
		redacting(t, "seed"),
		encrypted(t, middleware.EncryptionConfig{ActiveKey: generateKey(t)}),
	)
	ports.RunReportStoreContract(t, store)
}

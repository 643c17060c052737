package jwt

import (
	"errors"
	"strings"
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"

	"github.com/kbukum/tokenkit/logger"
)

const (
	testAccessSecret  = "access-secret-for-tests"
	testRefreshSecret = "refresh-secret-for-tests"
)

var epoch = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

// clock is a settable time source.
type clock struct{ t time.Time }

func newClock(t time.Time) *clock { return &clock{t: t} }

func (c *clock) now() time.Time { return c.t }

func (c *clock) advance(d time.Duration) { c.t = c.t.Add(d) }

func testPrincipal() Principal {
	return Principal{Name: "Ada", Email: "ada@example.com", UserID: 42, Role: RoleUser}
}

func testConfig() Config {
	return Config{
		AccessSecret:    testAccessSecret,
		RefreshSecret:   testRefreshSecret,
		AccessTokenTTL:  time.Hour,
		RefreshTokenTTL: 24 * time.Hour,
	}
}

func newTestAuthority(t *testing.T, cfg Config, c *clock) *Authority {
	t.Helper()
	a, err := NewAuthority(cfg, WithClock(c.now), WithLogger(logger.NewNop()))
	if err != nil {
		t.Fatalf("NewAuthority: %v", err)
	}
	return a
}

func wantKind(t *testing.T, err error, kind ErrorKind) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", kind)
	}
	if got := KindOf(err); got != kind {
		t.Fatalf("expected kind %s, got %s (%v)", kind, got, err)
	}
}

// signRaw signs arbitrary claims with HS256, bypassing the authority.
func signRaw(t *testing.T, claims gojwt.Claims, secret string) string {
	t.Helper()
	s, err := gojwt.NewWithClaims(gojwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("signing raw token: %v", err)
	}
	return s
}

func TestNewAuthority_ConfigErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"empty access secret", func(c *Config) { c.AccessSecret = "" }, "access_secret"},
		{"empty refresh secret", func(c *Config) { c.RefreshSecret = "" }, "refresh_secret"},
		{"zero access ttl", func(c *Config) { c.AccessTokenTTL = 0 }, "access_token_ttl"},
		{"negative refresh ttl", func(c *Config) { c.RefreshTokenTTL = -time.Minute }, "refresh_token_ttl"},
		{"asymmetric method", func(c *Config) { c.Method = "RS256" }, "method"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := testConfig()
			tc.mutate(&cfg)
			_, err := NewAuthority(cfg, WithLogger(logger.NewNop()))
			wantKind(t, err, KindConfig)
			if !errors.Is(err, ErrConfig) {
				t.Error("expected errors.Is(err, ErrConfig)")
			}
			if !strings.Contains(err.Error(), tc.field) {
				t.Errorf("expected %q in error, got %q", tc.field, err.Error())
			}
		})
	}
}

func TestNewAuthority_DefaultsMethod(t *testing.T) {
	a := newTestAuthority(t, testConfig(), newClock(epoch))
	if a.method.Alg() != "HS256" {
		t.Errorf("expected HS256, got %s", a.method.Alg())
	}
}

func TestAuthority_RoundTrip(t *testing.T) {
	for _, method := range []SigningMethod{HS256, HS384, HS512} {
		t.Run(string(method), func(t *testing.T) {
			cfg := testConfig()
			cfg.Method = method
			a := newTestAuthority(t, cfg, newClock(epoch))
			p := testPrincipal()

			access, err := a.IssueAccessToken(p)
			if err != nil {
				t.Fatalf("IssueAccessToken: %v", err)
			}
			got, err := a.VerifyAccessToken(access)
			if err != nil {
				t.Fatalf("VerifyAccessToken: %v", err)
			}
			if got != p {
				t.Errorf("expected %+v, got %+v", p, got)
			}

			refresh, err := a.IssueRefreshToken(p)
			if err != nil {
				t.Fatalf("IssueRefreshToken: %v", err)
			}
			got, err = a.VerifyRefreshToken(refresh)
			if err != nil {
				t.Fatalf("VerifyRefreshToken: %v", err)
			}
			if got != p {
				t.Errorf("expected %+v, got %+v", p, got)
			}
		})
	}
}

func TestAuthority_OptionalFieldsAbsent(t *testing.T) {
	a := newTestAuthority(t, testConfig(), newClock(epoch))
	p := Principal{UserID: 7}

	token, err := a.IssueAccessToken(p)
	if err != nil {
		t.Fatalf("IssueAccessToken: %v", err)
	}
	payload := decodePayload(t, token)
	for _, key := range []string{`"name"`, `"email"`, `"role"`} {
		if strings.Contains(payload, key) {
			t.Errorf("expected %s to be omitted from %s", key, payload)
		}
	}
	got, err := a.VerifyAccessToken(token)
	if err != nil {
		t.Fatalf("VerifyAccessToken: %v", err)
	}
	if got != p {
		t.Errorf("expected %+v, got %+v", p, got)
	}
}

func TestAuthority_ClaimSet(t *testing.T) {
	a := newTestAuthority(t, testConfig(), newClock(epoch))
	token, err := a.IssueAccessToken(Principal{Name: "Ada", Email: "ada@example.com", UserID: 42, Role: RoleAdmin})
	if err != nil {
		t.Fatalf("IssueAccessToken: %v", err)
	}

	claims, err := a.parse(token, TokenAccess)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.Type != TokenAccess {
		t.Errorf("expected type access, got %q", claims.Type)
	}
	if !claims.IssuedAt.Time.Equal(epoch) {
		t.Errorf("expected iat %v, got %v", epoch, claims.IssuedAt.Time)
	}
	if !claims.ExpiresAt.Time.Equal(epoch.Add(time.Hour)) {
		t.Errorf("expected exp %v, got %v", epoch.Add(time.Hour), claims.ExpiresAt.Time)
	}

	payload := decodePayload(t, token)
	for _, want := range []string{`"userId":42`, `"role":"ADMIN"`, `"type":"access"`, `"email":"ada@example.com"`} {
		if !strings.Contains(payload, want) {
			t.Errorf("expected %s in payload %s", want, payload)
		}
	}
}

func TestAuthority_IssueTokenPair(t *testing.T) {
	c := newClock(epoch)
	a := newTestAuthority(t, testConfig(), c)

	pair, err := a.IssueTokenPair(testPrincipal())
	if err != nil {
		t.Fatalf("IssueTokenPair: %v", err)
	}
	if !pair.AccessExpiresAt.Equal(epoch.Add(time.Hour)) {
		t.Errorf("unexpected access expiry %v", pair.AccessExpiresAt)
	}
	if !pair.RefreshExpiresAt.Equal(epoch.Add(24 * time.Hour)) {
		t.Errorf("unexpected refresh expiry %v", pair.RefreshExpiresAt)
	}

	accessClaims, err := a.parse(pair.AccessToken, TokenAccess)
	if err != nil {
		t.Fatalf("parse access: %v", err)
	}
	refreshClaims, err := a.parse(pair.RefreshToken, TokenRefresh)
	if err != nil {
		t.Fatalf("parse refresh: %v", err)
	}
	if !accessClaims.IssuedAt.Equal(refreshClaims.IssuedAt.Time) {
		t.Error("expected both tokens to share one issuance instant")
	}
}

func TestAuthority_InvalidRole(t *testing.T) {
	a := newTestAuthority(t, testConfig(), newClock(epoch))
	if _, err := a.IssueAccessToken(Principal{UserID: 1, Role: Role(9)}); err == nil {
		t.Fatal("expected error for undeclared role")
	}
	if _, err := a.IssueTokenPair(Principal{UserID: 1, Role: Role(9)}); err == nil {
		t.Fatal("expected error for undeclared role")
	}
}

func TestAuthority_TypeDiscrimination(t *testing.T) {
	configs := map[string]Config{
		"distinct secrets": testConfig(),
		"shared secret": func() Config {
			c := testConfig()
			c.RefreshSecret = c.AccessSecret
			return c
		}(),
	}
	for name, cfg := range configs {
		t.Run(name, func(t *testing.T) {
			a := newTestAuthority(t, cfg, newClock(epoch))
			pair, err := a.IssueTokenPair(testPrincipal())
			if err != nil {
				t.Fatalf("IssueTokenPair: %v", err)
			}

			_, err = a.VerifyAccessToken(pair.RefreshToken)
			wantKind(t, err, KindWrongTokenType)
			if !errors.Is(err, ErrWrongTokenType) {
				t.Error("expected errors.Is(err, ErrWrongTokenType)")
			}

			_, err = a.VerifyRefreshToken(pair.AccessToken)
			wantKind(t, err, KindWrongTokenType)

			_, err = a.RefreshAccessToken(pair.AccessToken)
			wantKind(t, err, KindWrongTokenType)
		})
	}
}

func TestAuthority_SecretIsolation(t *testing.T) {
	c := newClock(epoch)
	a := newTestAuthority(t, testConfig(), c)

	other := testConfig()
	other.AccessSecret = "someone-elses-access-secret"
	other.RefreshSecret = "someone-elses-refresh-secret"
	forger := newTestAuthority(t, other, c)

	pair, err := forger.IssueTokenPair(testPrincipal())
	if err != nil {
		t.Fatalf("IssueTokenPair: %v", err)
	}
	_, err = a.VerifyAccessToken(pair.AccessToken)
	wantKind(t, err, KindInvalidSignature)
	_, err = a.VerifyRefreshToken(pair.RefreshToken)
	wantKind(t, err, KindInvalidSignature)

	// Access-typed claims signed with the refresh secret.
	claims := newClaims(testPrincipal(), TokenAccess, epoch, epoch.Add(time.Hour))
	crossSigned := signRaw(t, claims, testRefreshSecret)
	_, err = a.VerifyAccessToken(crossSigned)
	wantKind(t, err, KindInvalidSignature)
}

func TestAuthority_SingleSecretDiffers(t *testing.T) {
	tests := []struct {
		name          string
		mutate        func(*Config)
		accessKind    ErrorKind
		refreshAccept bool
	}{
		{
			name:          "access secret only",
			mutate:        func(c *Config) { c.AccessSecret = "another-access-secret" },
			accessKind:    KindInvalidSignature,
			refreshAccept: true,
		},
		{
			name:          "refresh secret only",
			mutate:        func(c *Config) { c.RefreshSecret = "another-refresh-secret" },
			accessKind:    KindUnknown,
			refreshAccept: false,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := newClock(epoch)
			a := newTestAuthority(t, testConfig(), c)

			cfg := testConfig()
			tc.mutate(&cfg)
			b := newTestAuthority(t, cfg, c)

			pair, err := b.IssueTokenPair(testPrincipal())
			if err != nil {
				t.Fatalf("IssueTokenPair: %v", err)
			}

			_, err = a.VerifyAccessToken(pair.AccessToken)
			if tc.accessKind == KindUnknown {
				if err != nil {
					t.Fatalf("access token under the shared access secret should verify: %v", err)
				}
			} else {
				wantKind(t, err, tc.accessKind)
			}

			_, err = a.VerifyRefreshToken(pair.RefreshToken)
			if tc.refreshAccept {
				if err != nil {
					t.Fatalf("refresh token under the shared refresh secret should verify: %v", err)
				}
			} else {
				wantKind(t, err, KindInvalidSignature)
			}
			if _, err := a.RefreshAccessToken(pair.RefreshToken); (err == nil) != tc.refreshAccept {
				t.Fatalf("RefreshAccessToken err = %v, want accepted=%v", err, tc.refreshAccept)
			}
		})
	}
}

func TestAuthority_NotBeforeInFuture(t *testing.T) {
	c := newClock(epoch)
	a := newTestAuthority(t, testConfig(), c)

	claims := newClaims(testPrincipal(), TokenAccess, epoch, epoch.Add(time.Hour))
	claims.NotBefore = gojwt.NewNumericDate(epoch.Add(time.Minute))
	token := signRaw(t, claims, testAccessSecret)

	_, err := a.VerifyAccessToken(token)
	wantKind(t, err, KindInvalidClaims)
	if KindOf(err).Category() != CategoryReauthenticate {
		t.Errorf("expected re-authenticate category, got %d", KindOf(err).Category())
	}

	c.advance(time.Minute)
	if _, err := a.VerifyAccessToken(token); err != nil {
		t.Fatalf("token should verify once nbf has passed: %v", err)
	}
}

func TestAuthority_Expiry(t *testing.T) {
	c := newClock(epoch)
	a := newTestAuthority(t, testConfig(), c)

	pair, err := a.IssueTokenPair(testPrincipal())
	if err != nil {
		t.Fatalf("IssueTokenPair: %v", err)
	}

	c.t = epoch.Add(time.Hour - time.Second)
	if _, err := a.VerifyAccessToken(pair.AccessToken); err != nil {
		t.Fatalf("expected access token valid one second before expiry, got %v", err)
	}

	c.t = epoch.Add(time.Hour + time.Second)
	_, err = a.VerifyAccessToken(pair.AccessToken)
	wantKind(t, err, KindExpired)
	if !errors.Is(err, ErrExpired) {
		t.Error("expected errors.Is(err, ErrExpired)")
	}

	c.t = epoch.Add(24*time.Hour - time.Second)
	if _, err := a.VerifyRefreshToken(pair.RefreshToken); err != nil {
		t.Fatalf("expected refresh token valid one second before expiry, got %v", err)
	}
	c.t = epoch.Add(24*time.Hour + time.Second)
	_, err = a.RefreshAccessToken(pair.RefreshToken)
	wantKind(t, err, KindExpired)
}

func TestAuthority_ExpiredBeatsTypeCheck(t *testing.T) {
	cfg := testConfig()
	cfg.RefreshSecret = cfg.AccessSecret
	c := newClock(epoch)
	a := newTestAuthority(t, cfg, c)

	refresh, err := a.IssueRefreshToken(testPrincipal())
	if err != nil {
		t.Fatalf("IssueRefreshToken: %v", err)
	}
	c.advance(48 * time.Hour)
	_, err = a.VerifyAccessToken(refresh)
	wantKind(t, err, KindExpired)
}

func TestAuthority_RefreshFlow(t *testing.T) {
	c := newClock(epoch)
	a := newTestAuthority(t, testConfig(), c)
	p := testPrincipal()

	pair, err := a.IssueTokenPair(p)
	if err != nil {
		t.Fatalf("IssueTokenPair: %v", err)
	}

	c.advance(90 * time.Minute)
	_, err = a.VerifyAccessToken(pair.AccessToken)
	wantKind(t, err, KindExpired)

	access, err := a.RefreshAccessToken(pair.RefreshToken)
	if err != nil {
		t.Fatalf("RefreshAccessToken: %v", err)
	}
	if access == pair.AccessToken {
		t.Fatal("expected a new access token")
	}
	got, err := a.VerifyAccessToken(access)
	if err != nil {
		t.Fatalf("VerifyAccessToken(refreshed): %v", err)
	}
	if got != p {
		t.Errorf("expected %+v, got %+v", p, got)
	}

	claims, err := a.parse(access, TokenAccess)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !claims.IssuedAt.Time.Equal(c.t) {
		t.Errorf("expected fresh iat %v, got %v", c.t, claims.IssuedAt.Time)
	}
	if !claims.ExpiresAt.Time.Equal(c.t.Add(time.Hour)) {
		t.Errorf("expected fresh exp %v, got %v", c.t.Add(time.Hour), claims.ExpiresAt.Time)
	}

	// The refresh token is not rotated and stays usable.
	if _, err := a.RefreshAccessToken(pair.RefreshToken); err != nil {
		t.Errorf("expected refresh token to remain valid, got %v", err)
	}
}

// One hour access, one day refresh: the access token dies after an hour,
// refreshing works until the day is over, then the user must log in again.
func TestAuthority_HourAndDayScenario(t *testing.T) {
	c := newClock(epoch)
	a := newTestAuthority(t, testConfig(), c)
	pair, err := a.IssueTokenPair(Principal{UserID: 1, Email: "u@example.com", Role: RoleUser})
	if err != nil {
		t.Fatalf("IssueTokenPair: %v", err)
	}

	c.advance(30 * time.Minute)
	if _, err := a.VerifyAccessToken(pair.AccessToken); err != nil {
		t.Fatalf("t+30m: %v", err)
	}

	c.advance(time.Hour)
	_, err = a.VerifyAccessToken(pair.AccessToken)
	wantKind(t, err, KindExpired)

	access, err := a.RefreshAccessToken(pair.RefreshToken)
	if err != nil {
		t.Fatalf("t+90m refresh: %v", err)
	}
	if _, err := a.VerifyAccessToken(access); err != nil {
		t.Fatalf("t+90m refreshed access: %v", err)
	}

	c.t = epoch.Add(25 * time.Hour)
	_, err = a.RefreshAccessToken(pair.RefreshToken)
	wantKind(t, err, KindExpired)
}

func TestAuthority_MissingClaims(t *testing.T) {
	a := newTestAuthority(t, testConfig(), newClock(epoch))
	iat := gojwt.NewNumericDate(epoch)
	exp := gojwt.NewNumericDate(epoch.Add(time.Hour))

	tests := []struct {
		name   string
		claims gojwt.MapClaims
		kind   ErrorKind
	}{
		{"no userId", gojwt.MapClaims{"type": "access", "iat": iat, "exp": exp, "email": "x@example.com"}, KindMissingRequiredClaim},
		{"no exp", gojwt.MapClaims{"type": "access", "iat": iat, "userId": 1}, KindMissingRequiredClaim},
		{"no iat", gojwt.MapClaims{"type": "access", "exp": exp, "userId": 1}, KindMissingRequiredClaim},
		{"no type", gojwt.MapClaims{"iat": iat, "exp": exp, "userId": 1}, KindWrongTokenType},
		{"unknown type", gojwt.MapClaims{"type": "id", "iat": iat, "exp": exp, "userId": 1}, KindWrongTokenType},
		{"uppercase type", gojwt.MapClaims{"type": "ACCESS", "iat": iat, "exp": exp, "userId": 1}, KindWrongTokenType},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := a.VerifyAccessToken(signRaw(t, tc.claims, testAccessSecret))
			wantKind(t, err, tc.kind)
		})
	}
}

func TestAuthority_UnknownRoleClaim(t *testing.T) {
	a := newTestAuthority(t, testConfig(), newClock(epoch))
	token := signRaw(t, gojwt.MapClaims{
		"type": "access", "userId": 1, "role": "ROOT",
		"iat": gojwt.NewNumericDate(epoch), "exp": gojwt.NewNumericDate(epoch.Add(time.Hour)),
	}, testAccessSecret)
	_, err := a.VerifyAccessToken(token)
	wantKind(t, err, KindMalformedToken)
}

func TestAuthority_AlgorithmDowngrade(t *testing.T) {
	a := newTestAuthority(t, testConfig(), newClock(epoch))
	claims := newClaims(testPrincipal(), TokenAccess, epoch, epoch.Add(time.Hour))

	none, err := gojwt.NewWithClaims(gojwt.SigningMethodNone, claims).SignedString(gojwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("signing none token: %v", err)
	}
	_, err = a.VerifyAccessToken(none)
	wantKind(t, err, KindInvalidSignature)

	hs512, err := gojwt.NewWithClaims(gojwt.SigningMethodHS512, claims).SignedString([]byte(testAccessSecret))
	if err != nil {
		t.Fatalf("signing HS512 token: %v", err)
	}
	_, err = a.VerifyAccessToken(hs512)
	wantKind(t, err, KindInvalidSignature)
}

func TestAuthority_Malformed(t *testing.T) {
	a := newTestAuthority(t, testConfig(), newClock(epoch))
	for _, token := range []string{"", "not-a-token", "a.b", "a.b.c", "eyJhbGciOiJIUzI1NiJ9.e30"} {
		t.Run(token, func(t *testing.T) {
			_, err := a.VerifyAccessToken(token)
			wantKind(t, err, KindMalformedToken)
			if KindOf(err).Category() != CategoryBadRequest {
				t.Errorf("expected bad request category for %q", token)
			}
		})
	}
}

func TestAuthority_TamperedPayload(t *testing.T) {
	a := newTestAuthority(t, testConfig(), newClock(epoch))
	token, err := a.IssueAccessToken(Principal{UserID: 1, Role: RoleUser})
	if err != nil {
		t.Fatalf("IssueAccessToken: %v", err)
	}
	forged, err := a.IssueAccessToken(Principal{UserID: 1, Role: RoleAdmin})
	if err != nil {
		t.Fatalf("IssueAccessToken: %v", err)
	}

	parts := strings.Split(token, ".")
	forgedParts := strings.Split(forged, ".")
	tampered := parts[0] + "." + forgedParts[1] + "." + parts[2]
	_, err = a.VerifyAccessToken(tampered)
	wantKind(t, err, KindInvalidSignature)
}

func TestAuthority_ConcurrentUse(t *testing.T) {
	a := newTestAuthority(t, testConfig(), newClock(epoch))
	done := make(chan error, 16)
	for i := range 16 {
		go func(uid int64) {
			pair, err := a.IssueTokenPair(Principal{UserID: uid})
			if err != nil {
				done <- err
				return
			}
			p, err := a.VerifyAccessToken(pair.AccessToken)
			if err == nil && p.UserID != uid {
				err = errors.New("principal mismatch")
			}
			done <- err
		}(int64(i))
	}
	for range 16 {
		if err := <-done; err != nil {
			t.Error(err)
		}
	}
}

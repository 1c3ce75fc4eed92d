package jwt

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/suite"
)

type JWTTestSuite struct {
	suite.Suite
	auth   Auth
	secret string
	hostID string
}

func TestJWTSuite(t *testing.T) {
	suite.Run(t, new(JWTTestSuite))
}

func (s *JWTTestSuite) SetupTest() {
	s.secret = "test-secret"
	s.hostID = "host-1"
	s.auth = NewAuth(s.secret)
}

func (s *JWTTestSuite) signRaw(claims *Payload) string {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	str, err := token.SignedString([]byte(s.secret))
	s.Require().NoError(err)
	return str
}

func (s *JWTTestSuite) TestSignAndVerify() {
	token, err := s.auth.Sign(s.hostID, ScopeControl, time.Hour)
	s.Require().NoError(err)
	s.True(strings.HasPrefix(token, "eyJ"))

	claims, err := s.auth.Verify(token)
	s.Require().NoError(err)
	s.Equal(s.hostID, claims.HostID)
	s.Equal(ScopeControl, claims.Scope)
	s.NotNil(claims.ExpiresAt)
}

func (s *JWTTestSuite) TestSignWithoutExpiry() {
	token, err := s.auth.Sign(s.hostID, ScopeObserve, 0)
	s.Require().NoError(err)

	claims, err := s.auth.Verify(token)
	s.Require().NoError(err)
	s.Nil(claims.ExpiresAt)
}

func (s *JWTTestSuite) TestSignInvalidRequest() {
	_, err := s.auth.Sign("", ScopeControl, 0)
	s.ErrorIs(err, ErrInvalidRequest)

	_, err = s.auth.Sign(s.hostID, Scope("admin"), 0)
	s.ErrorIs(err, ErrInvalidRequest)
}

func (s *JWTTestSuite) TestVerifyRejects() {
	expired := s.signRaw(&Payload{
		HostID: s.hostID,
		Scope:  ScopeControl,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	})

	tests := []struct {
		name  string
		token string
		want  error
	}{
		{name: "empty", token: "", want: ErrNoToken},
		{name: "garbage", token: "invalid-token", want: ErrInvalidToken},
		{name: "malformed", token: "eyJ.invalid.token", want: ErrInvalidToken},
		{name: "expired", token: expired, want: ErrInvalidToken},
		{name: "missing host", token: s.signRaw(&Payload{Scope: ScopeControl}), want: ErrInvalidToken},
		{name: "unknown scope", token: s.signRaw(&Payload{HostID: s.hostID, Scope: "root"}), want: ErrInvalidToken},
	}
	for _, tt := range tests {
		s.Run(tt.name, func() {
			claims, err := s.auth.Verify(tt.token)
			s.Require().ErrorIs(err, tt.want)
			s.Nil(claims)
		})
	}
}

func (s *JWTTestSuite) TestVerifyWrongSecret() {
	token, err := s.auth.Sign(s.hostID, ScopeControl, 0)
	s.Require().NoError(err)

	_, err = NewAuth("wrong-secret").Verify(token)
	s.ErrorIs(err, ErrInvalidToken)
}

func (s *JWTTestSuite) TestAlgorithmMismatch() {
	for _, method := range []jwt.SigningMethod{jwt.SigningMethodHS384, jwt.SigningMethodHS512} {
		s.Run(method.Alg(), func() {
			other := NewAuthWithAlgorithm(s.secret, method)
			token, err := other.Sign(s.hostID, ScopeControl, 0)
			s.Require().NoError(err)

			_, err = s.auth.Verify(token)
			s.ErrorIs(err, ErrInvalidToken)

			claims, err := other.Verify(token)
			s.Require().NoError(err)
			s.Equal(s.hostID, claims.HostID)
		})
	}
}

func (s *JWTTestSuite) TestScopeAllows() {
	s.True(ScopeControl.Allows(ScopeControl))
	s.True(ScopeControl.Allows(ScopeObserve))
	s.True(ScopeObserve.Allows(ScopeObserve))
	s.False(ScopeObserve.Allows(ScopeControl))
}

package service

import (
	"testing"
	"time"

	"github.com/CHFernandes/Opus-Fenestra-sub000/internal/apperr"
	jwtpkg "github.com/CHFernandes/Opus-Fenestra-sub000/pkg/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testJWTSecret = "test-secret"

func TestLoginRoundTrip(t *testing.T) {
	db := newTestDB(t)
	f := seedFixtures(t, db)
	persons := NewPersonService(db)
	auth := NewAuthService(db, testJWTSecret, 24)

	created, err := persons.Create(f.org.ID, "Ana", "ana@acme.test", "s3cret", "manager")
	require.NoError(t, err)

	person, token, expireAt, err := auth.Login("ana@acme.test", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, created.ID, person.ID)
	assert.NotEmpty(t, token)
	assert.True(t, expireAt.After(time.Now()))
	assert.NotNil(t, person.LastLoginAt)

	claims, err := jwtpkg.ParseToken(testJWTSecret, token)
	require.NoError(t, err)
	assert.Equal(t, created.ID, claims.PersonID)
	assert.Equal(t, "manager", claims.Role)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	db := newTestDB(t)
	f := seedFixtures(t, db)
	persons := NewPersonService(db)
	auth := NewAuthService(db, testJWTSecret, 24)

	_, err := persons.Create(f.org.ID, "Ana", "ana@acme.test", "s3cret", "manager")
	require.NoError(t, err)

	_, _, _, err = auth.Login("ana@acme.test", "wrong")
	requireKind(t, err, apperr.KindUnauthorized)
	_, _, _, err = auth.Login("nobody@acme.test", "s3cret")
	requireKind(t, err, apperr.KindUnauthorized)
}

func TestLoginRejectsDisabledAccount(t *testing.T) {
	db := newTestDB(t)
	f := seedFixtures(t, db)
	persons := NewPersonService(db)
	auth := NewAuthService(db, testJWTSecret, 24)

	created, err := persons.Create(f.org.ID, "Ana", "ana@acme.test", "s3cret", "member")
	require.NoError(t, err)
	_, err = persons.UpdateStatus(created.ID, 0)
	require.NoError(t, err)

	_, _, _, err = auth.Login("ana@acme.test", "s3cret")
	requireKind(t, err, apperr.KindForbidden)
}

func TestCreatePersonRejectsDuplicateEmail(t *testing.T) {
	db := newTestDB(t)
	f := seedFixtures(t, db)
	persons := NewPersonService(db)

	_, err := persons.Create(f.org.ID, "Ana", "ana@acme.test", "s3cret", "member")
	require.NoError(t, err)
	_, err = persons.Create(f.org.ID, "Ana Again", "ana@acme.test", "other", "member")
	requireKind(t, err, apperr.KindConflict)
}

func TestRefreshToken(t *testing.T) {
	db := newTestDB(t)
	f := seedFixtures(t, db)
	auth := NewAuthService(db, testJWTSecret, 24)

	token, _, err := auth.RefreshToken(f.manager.ID)
	require.NoError(t, err)
	claims, err := jwtpkg.ParseToken(testJWTSecret, token)
	require.NoError(t, err)
	assert.Equal(t, f.manager.ID, claims.PersonID)

	_, _, err = auth.RefreshToken(9999)
	requireKind(t, err, apperr.KindNotFound)
}

package service

import (
	"testing"

	"github.com/CHFernandes/Opus-Fenestra-sub000/internal/apperr"
	"github.com/CHFernandes/Opus-Fenestra-sub000/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreatePortfolioRejectsDuplicateName(t *testing.T) {
	db := newTestDB(t)
	f := seedFixtures(t, db)
	svc := NewPortfolioService(db)

	_, err := svc.Create(f.org.ID, "Innovation", "", "")
	requireKind(t, err, apperr.KindConflict)

	// Same name in another organization is fine.
	other := model.Organization{Name: "Globex"}
	require.NoError(t, db.Create(&other).Error)
	_, err = svc.Create(other.ID, "Innovation", "", "")
	require.NoError(t, err)
}

func TestDeletePortfolioRefusedWhileOwning(t *testing.T) {
	db := newTestDB(t)
	f := seedFixtures(t, db)
	svc := NewPortfolioService(db)

	// Owns criteria from the fixtures.
	err := svc.Delete(f.portfolio.ID)
	requireKind(t, err, apperr.KindConflict)

	empty, err := svc.Create(f.org.ID, "Empty", "", "")
	require.NoError(t, err)
	require.NoError(t, svc.Delete(empty.ID))
}

func TestDeleteOrganizationRefusedWhileOwning(t *testing.T) {
	db := newTestDB(t)
	f := seedFixtures(t, db)
	svc := NewOrganizationService(db)

	err := svc.Delete(f.org.ID)
	requireKind(t, err, apperr.KindConflict)

	empty, err := svc.Create("Globex", "")
	require.NoError(t, err)
	require.NoError(t, svc.Delete(empty.ID))

	_, err = svc.GetByID(empty.ID)
	requireKind(t, err, apperr.KindNotFound)
}

func TestListByOrganizationScopes(t *testing.T) {
	db := newTestDB(t)
	f := seedFixtures(t, db)
	svc := NewPortfolioService(db)

	other := model.Organization{Name: "Globex"}
	require.NoError(t, db.Create(&other).Error)
	_, err := svc.Create(other.ID, "Foreign", "", "")
	require.NoError(t, err)

	mine, err := svc.ListByOrganization(f.org.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, f.portfolio.ID, mine[0].ID)
}

package service

import (
	"testing"
	"time"

	"github.com/CHFernandes/Opus-Fenestra-sub000/internal/model"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens an in-memory sqlite database with the full schema. A single
// connection keeps every session on the same in-memory store.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, model.AutoMigrate(db))
	return db
}

type fixtures struct {
	org       model.Organization
	manager   model.Person
	member    model.Person
	portfolio model.Portfolio
	unit      model.Unit
	criteria  []model.Criterion
}

// seedFixtures creates one organization with a manager, a member, a portfolio
// and two manual-scale criteria whose weights sum to the required total.
func seedFixtures(t *testing.T, db *gorm.DB) fixtures {
	t.Helper()
	f := fixtures{}

	f.org = model.Organization{Name: "Acme"}
	require.NoError(t, db.Create(&f.org).Error)

	f.manager = model.Person{
		OrganizationID: f.org.ID,
		Name:           "Maria",
		Email:          "maria@acme.test",
		PasswordHash:   "x",
		Role:           "manager",
		Status:         1,
	}
	require.NoError(t, db.Create(&f.manager).Error)

	f.member = model.Person{
		OrganizationID: f.org.ID,
		Name:           "Carlos",
		Email:          "carlos@acme.test",
		PasswordHash:   "x",
		Role:           "member",
		Status:         1,
	}
	require.NoError(t, db.Create(&f.member).Error)

	f.portfolio = model.Portfolio{OrganizationID: f.org.ID, Name: "Innovation"}
	require.NoError(t, db.Create(&f.portfolio).Error)

	best, worst := 10.0, 0.0
	f.unit = model.Unit{Description: "points", IsManual: true, BestValue: &best, WorstValue: &worst}
	require.NoError(t, db.Create(&f.unit).Error)

	for _, c := range []model.Criterion{
		{PortfolioID: f.portfolio.ID, Description: "ROI", Weight: 6, UnitID: f.unit.ID},
		{PortfolioID: f.portfolio.ID, Description: "Strategic fit", Weight: 4, UnitID: f.unit.ID},
	} {
		require.NoError(t, db.Create(&c).Error)
		f.criteria = append(f.criteria, c)
	}
	return f
}

// registerProject creates a project directly in the given state, with the
// initial ledger row a real registration would have written.
func registerProject(t *testing.T, db *gorm.DB, f fixtures, status model.StatusCode) model.Project {
	t.Helper()
	now := time.Now().UTC()
	p := model.Project{
		PortfolioID:      f.portfolio.ID,
		Name:             "CRM revamp",
		SubmitterID:      f.member.ID,
		StatusID:         uint(status),
		PlannedStartDate: now.AddDate(0, 0, -7),
		PlannedEndDate:   now.AddDate(0, 1, 0),
	}
	require.NoError(t, db.Create(&p).Error)
	require.NoError(t, db.Create(&model.ProjectStatus{
		PersonID:    f.member.ID,
		ProjectID:   p.ID,
		StatusID:    uint(model.StatusRegistered),
		ChangedTime: now,
	}).Error)
	return p
}

func ledgerCount(t *testing.T, db *gorm.DB, projectID uint) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&model.ProjectStatus{}).Where("project_id = ?", projectID).Count(&n).Error)
	return n
}

package repositories

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/rohits-web03/referly/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, Migrate(db))

	store := NewStore(db)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func ptr(s string) *string { return &s }

func createUser(t *testing.T, s *Store, userID, email string, referredBy *string, createdAt time.Time) *models.User {
	t.Helper()
	u := &models.User{
		Name:       "User " + userID,
		Email:      email,
		Password:   "hash",
		UserID:     userID,
		ReferredBy: referredBy,
		CreatedAt:  createdAt,
	}
	require.NoError(t, s.CreateUser(context.Background(), u))
	return u
}

func TestDialector(t *testing.T) {
	assert.IsType(t, &sqlite.Dialector{}, Dialector(""))
	assert.IsType(t, &sqlite.Dialector{}, Dialector("sqlite:local.db"))
	assert.IsType(t, &postgres.Dialector{}, Dialector("postgres://u:p@localhost:5432/db"))
	assert.IsType(t, &postgres.Dialector{}, Dialector("host=localhost user=u dbname=db"))

	lite, ok := Dialector("sqlite:///referral_system.db").(*sqlite.Dialector)
	require.True(t, ok)
	assert.Equal(t, "referral_system.db", lite.DSN)

	lite, ok = Dialector("sqlite:////var/lib/referly/app.db").(*sqlite.Dialector)
	require.True(t, ok)
	assert.Equal(t, "/var/lib/referly/app.db", lite.DSN)

	lite, ok = Dialector("sqlite://").(*sqlite.Dialector)
	require.True(t, ok)
	assert.Equal(t, ":memory:", lite.DSN)

	pg, ok := Dialector("postgresql+psycopg2://u:p@localhost:5432/db").(*postgres.Dialector)
	require.True(t, ok)
	assert.Equal(t, "postgres://u:p@localhost:5432/db", pg.Config.DSN)

	d, ok := Dialector("mysql://u:p@tcp(localhost:3306)/db").(*mysql.Dialector)
	require.True(t, ok)
	assert.Equal(t, "u:p@tcp(localhost:3306)/db?parseTime=true", d.Config.DSN)

	d, ok = Dialector("mysql://u:p@tcp(localhost:3306)/db?charset=utf8mb4").(*mysql.Dialector)
	require.True(t, ok)
	assert.Equal(t, "u:p@tcp(localhost:3306)/db?charset=utf8mb4&parseTime=true", d.Config.DSN)
}

func TestFindUserNotFound(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u, err := s.FindUserByEmail(ctx, "nobody@example.com")
	require.NoError(t, err)
	assert.Nil(t, u)

	u, err = s.FindUserByUserID(ctx, "USERNOPE00000")
	require.NoError(t, err)
	assert.Nil(t, u)

	u, err = s.FindAdmin(ctx)
	require.NoError(t, err)
	assert.Nil(t, u)
}

func TestCreateUserDuplicate(t *testing.T) {
	s := newTestStore(t)
	now := time.Now()
	createUser(t, s, "USERAAAAAAAAA", "a@x.com", nil, now)

	err := s.CreateUser(context.Background(), &models.User{
		Name: "Dup", Email: "a@x.com", Password: "hash", UserID: "USERBBBBBBBBB",
	})
	assert.ErrorIs(t, err, ErrDuplicateUser)

	err = s.CreateUser(context.Background(), &models.User{
		Name: "Dup", Email: "b@x.com", Password: "hash", UserID: "USERAAAAAAAAA",
	})
	assert.ErrorIs(t, err, ErrDuplicateUser)
}

func TestReferralQueries(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	base := time.Now().Add(-time.Hour)

	createUser(t, s, "USERROOT00001", "root@x.com", nil, base)
	createUser(t, s, "USERCHILD0001", "c1@x.com", ptr("USERROOT00001"), base.Add(1*time.Minute))
	createUser(t, s, "USERCHILD0002", "c2@x.com", ptr("USERROOT00001"), base.Add(2*time.Minute))
	createUser(t, s, "USERGRAND0001", "g1@x.com", ptr("USERCHILD0001"), base.Add(3*time.Minute))

	users, err := s.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 4)
	assert.Equal(t, "USERGRAND0001", users[0].UserID)
	assert.Equal(t, "USERROOT00001", users[3].UserID)

	refs, err := s.ListReferrals(ctx, "USERROOT00001")
	require.NoError(t, err)
	require.Len(t, refs, 2)
	assert.Equal(t, "USERCHILD0002", refs[0].UserID)
	assert.Equal(t, "USERCHILD0001", refs[1].UserID)

	counts, err := s.ReferralCounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"USERROOT00001": 2, "USERCHILD0001": 1}, counts)

	n, err := s.CountUsersSince(ctx, base.Add(90*time.Second))
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)
}

func TestQRCodeSingleton(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	qr, err := s.GetQRCode(ctx)
	require.NoError(t, err)
	assert.Nil(t, qr)

	require.NoError(t, s.SaveQRCode(ctx, "data:image/png;base64,first"))
	require.NoError(t, s.SaveQRCode(ctx, "data:image/png;base64,second"))

	var count int64
	require.NoError(t, s.db.Model(&models.QRCode{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	qr, err = s.GetQRCode(ctx)
	require.NoError(t, err)
	require.NotNil(t, qr)
	require.NotNil(t, qr.QRCode)
	assert.Equal(t, "data:image/png;base64,second", *qr.QRCode)
	assert.Equal(t, models.QRCodeSingletonID, qr.ID)

	deleted, err := s.DeleteQRCodes(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, deleted)

	qr, err = s.GetQRCode(ctx)
	require.NoError(t, err)
	assert.Nil(t, qr)

	deleted, err = s.DeleteQRCodes(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 0, deleted)
}

func TestSaveQRCodeRemovesLegacyRows(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.db.Create(&models.QRCode{ID: 7, QRCode: ptr("legacy")}).Error)
	require.NoError(t, s.SaveQRCode(ctx, "fresh"))

	var rows []models.QRCode
	require.NoError(t, s.db.Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, "fresh", *rows[0].QRCode)
}

package repository

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockRepo(t *testing.T) (UserRepository, sqlmock.Sqlmock) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	return NewUserRepository(db), mock
}

func TestFindByEmail_ExcludesSoftDeleted(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("SELECT (.+) FROM `users` WHERE email = \\? AND `users`\\.`deleted_at` IS NULL").
		WithArgs("alice@test.com", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "username"}).
			AddRow(1, "alice@test.com", "alice"))

	user, err := repo.FindByEmail("alice@test.com")
	require.NoError(t, err)
	require.Equal(t, "alice@test.com", user.Email)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByEmail_NotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("SELECT (.+) FROM `users`").
		WithArgs("ghost@test.com", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email"}))

	_, err := repo.FindByEmail("ghost@test.com")
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

// Email uniqueness must look past soft deletion, so the count query carries
// no deleted_at clause.
func TestEmailExists_CountsSoftDeletedRows(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `users` WHERE email = \\?$").
		WithArgs("former@test.com").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	exists, err := repo.EmailExists("former@test.com")
	require.NoError(t, err)
	require.True(t, exists)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateSessionToken(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `users` SET `session_token`=(.+) WHERE id = \\?").
		WithArgs("new-session", sqlmock.AnyArg(), uint64(42)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.UpdateSessionToken(42, "new-session")
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

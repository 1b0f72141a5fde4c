package repository

import (
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/videotube/account-service/internal/domain"
)

func newMockDB(t *testing.T) (domain.UserRepository, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock: %v", err)
	}
	t.Cleanup(func() { sqlDB.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("failed to open gorm: %v", err)
	}
	return NewUserRepository(gdb), mock
}

func userColumns() []string {
	return []string{"id", "username", "email", "full_name", "password", "avatar"}
}

func TestCreateUser(t *testing.T) {
	repo, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectCommit()

	user := &domain.User{
		Username: "alice",
		Email:    "alice@x.com",
		FullName: "Alice Anderson",
		Password: "hashed",
		Avatar:   "https://store.example.com/media/a.png",
	}
	if err := repo.Create(user); err != nil {
		t.Fatalf("Create() unexpected error: %v", err)
	}
	if user.ID != 1 {
		t.Errorf("user.ID = %d, want 1", user.ID)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestCreateUserDuplicate(t *testing.T) {
	repo, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "users"`).
		WillReturnError(gorm.ErrDuplicatedKey)
	mock.ExpectRollback()

	err := repo.Create(&domain.User{
		Username: "alice",
		Email:    "alice@x.com",
		FullName: "Alice Anderson",
		Password: "hashed",
		Avatar:   "https://store.example.com/media/a.png",
	})
	if !errors.Is(err, domain.ErrDuplicateKey) {
		t.Fatalf("Create() error = %v, want ErrDuplicateKey", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestGetByID(t *testing.T) {
	repo, mock := newMockDB(t)

	mock.ExpectQuery(`SELECT \* FROM "users" WHERE "users"\."id" = \$1`).
		WillReturnRows(sqlmock.NewRows(userColumns()).
			AddRow(1, "alice", "alice@x.com", "Alice Anderson", "hashed", "https://store.example.com/media/a.png"))

	user, err := repo.GetByID(1)
	if err != nil {
		t.Fatalf("GetByID() unexpected error: %v", err)
	}
	if user.Username != "alice" {
		t.Errorf("username = %q, want %q", user.Username, "alice")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestGetByIDNotFound(t *testing.T) {
	repo, mock := newMockDB(t)

	mock.ExpectQuery(`SELECT \* FROM "users" WHERE "users"\."id" = \$1`).
		WillReturnRows(sqlmock.NewRows(userColumns()))

	_, err := repo.GetByID(99)
	if !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("GetByID() error = %v, want ErrUserNotFound", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestGetByUsernameOrEmail(t *testing.T) {
	repo, mock := newMockDB(t)

	mock.ExpectQuery(`SELECT \* FROM "users" WHERE username = \$1 OR email = \$2`).
		WillReturnRows(sqlmock.NewRows(userColumns()).
			AddRow(1, "alice", "alice@x.com", "Alice Anderson", "hashed", "https://store.example.com/media/a.png"))

	user, err := repo.GetByUsernameOrEmail("alice", "alice@x.com")
	if err != nil {
		t.Fatalf("GetByUsernameOrEmail() unexpected error: %v", err)
	}
	if user.Email != "alice@x.com" {
		t.Errorf("email = %q, want %q", user.Email, "alice@x.com")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestUpdateRefreshToken(t *testing.T) {
	repo, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "users" SET "refresh_token"=\$1`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	if err := repo.UpdateRefreshToken(1, "new-token"); err != nil {
		t.Fatalf("UpdateRefreshToken() unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestUpdateRefreshTokenUserMissing(t *testing.T) {
	repo, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "users" SET "refresh_token"=\$1`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := repo.UpdateRefreshToken(99, "new-token")
	if !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("UpdateRefreshToken() error = %v, want ErrUserNotFound", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestUpdateAccount(t *testing.T) {
	repo, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "users" SET "email"=\$1,"full_name"=\$2`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	if err := repo.UpdateAccount(1, "Alice B", "new@x.com"); err != nil {
		t.Fatalf("UpdateAccount() unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestUpdateAvatar(t *testing.T) {
	repo, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "users" SET "avatar"=\$1`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	if err := repo.UpdateAvatar(1, "https://store.example.com/media/b.png"); err != nil {
		t.Fatalf("UpdateAvatar() unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

package repository_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/inkwelldev/inkwell/internal/models"
	"github.com/inkwelldev/inkwell/internal/repository"
	"github.com/inkwelldev/inkwell/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type UserRepositoryTestSuite struct {
	suite.Suite
	testDB   *testutil.TestDatabase
	userRepo *repository.UserRepository
}

func (s *UserRepositoryTestSuite) SetupSuite() {
	s.testDB = testutil.SetupTestDatabase(s.T())
	s.userRepo = repository.NewUserRepository(s.testDB.DB)
}

func (s *UserRepositoryTestSuite) TearDownSuite() {
	s.testDB.Teardown(s.T())
}

func (s *UserRepositoryTestSuite) SetupTest() {
	testutil.CleanDatabase(s.T(), s.testDB.DB)
}

func (s *UserRepositoryTestSuite) newUser(username, email string) *models.User {
	return &models.User{
		ID:           uuid.New(),
		Username:     username,
		Email:        email,
		PasswordHash: "$argon2id$v=19$m=65536,t=1,p=4$c2FsdA$aGFzaA",
		Role:         models.RoleUser,
	}
}

func (s *UserRepositoryTestSuite) TestCreateAndFindByEmail() {
	user := s.newUser("alice", "alice@example.com")

	require.NoError(s.T(), s.userRepo.CreateUser(user))

	found, err := s.userRepo.GetUserByEmail("alice@example.com")
	require.NoError(s.T(), err)
	require.NotNil(s.T(), found)
	assert.Equal(s.T(), user.ID, found.ID)
	assert.Equal(s.T(), "alice", found.Username)
	assert.Equal(s.T(), models.RoleUser, found.Role)
	assert.False(s.T(), found.CreatedAt.IsZero(), "CreatedAt should be set on insert")
}

func (s *UserRepositoryTestSuite) TestFindMissReturnsNil() {
	found, err := s.userRepo.GetUserByEmail("nobody@example.com")
	require.NoError(s.T(), err)
	assert.Nil(s.T(), found, "Lookup miss is (nil, nil), not an error")

	found, err = s.userRepo.GetUserByUsername("nobody")
	require.NoError(s.T(), err)
	assert.Nil(s.T(), found)

	found, err = s.userRepo.GetUserByID(uuid.New())
	require.NoError(s.T(), err)
	assert.Nil(s.T(), found)
}

func (s *UserRepositoryTestSuite) TestDuplicateEmailRejected() {
	require.NoError(s.T(), s.userRepo.CreateUser(s.newUser("first", "same@example.com")))

	// Different username, same email: the unique index rejects it.
	err := s.userRepo.CreateUser(s.newUser("second", "same@example.com"))
	assert.ErrorIs(s.T(), err, repository.ErrDuplicateKey)

	// Exactly one user stored for that email.
	var count int64
	s.testDB.DB.Table("users").Where("email = ?", "same@example.com").Count(&count)
	assert.EqualValues(s.T(), 1, count)
}

func (s *UserRepositoryTestSuite) TestDuplicateUsernameRejected() {
	require.NoError(s.T(), s.userRepo.CreateUser(s.newUser("same", "first@example.com")))

	err := s.userRepo.CreateUser(s.newUser("same", "second@example.com"))
	assert.ErrorIs(s.T(), err, repository.ErrDuplicateKey)
}

func (s *UserRepositoryTestSuite) TestCreateWithProfile() {
	user := s.newUser("withprofile", "withprofile@example.com")

	require.NoError(s.T(), s.userRepo.CreateUserWithProfile(user, &models.Profile{ID: uuid.New()}))

	var count int64
	s.testDB.DB.Table("profiles").Where("user_id = ?", user.ID.String()).Count(&count)
	assert.EqualValues(s.T(), 1, count, "Profile should be created alongside the user")
}

func (s *UserRepositoryTestSuite) TestCreateWithProfileRollsBackOnDuplicate() {
	require.NoError(s.T(), s.userRepo.CreateUser(s.newUser("taken", "taken@example.com")))

	var profilesBefore int64
	s.testDB.DB.Table("profiles").Count(&profilesBefore)

	err := s.userRepo.CreateUserWithProfile(
		s.newUser("other", "taken@example.com"),
		&models.Profile{ID: uuid.New()},
	)
	assert.ErrorIs(s.T(), err, repository.ErrDuplicateKey)

	// The transaction rolled back: no orphan profile, no second user.
	var profilesAfter int64
	s.testDB.DB.Table("profiles").Count(&profilesAfter)
	assert.Equal(s.T(), profilesBefore, profilesAfter)

	var users int64
	s.testDB.DB.Table("users").Count(&users)
	assert.EqualValues(s.T(), 1, users)
}

func (s *UserRepositoryTestSuite) TestUpdateRole() {
	user := s.newUser("promoted", "promoted@example.com")
	require.NoError(s.T(), s.userRepo.CreateUser(user))

	require.NoError(s.T(), s.userRepo.UpdateRole(user.ID, models.RoleAdmin))

	found, err := s.userRepo.GetUserByID(user.ID)
	require.NoError(s.T(), err)
	require.NotNil(s.T(), found)
	assert.Equal(s.T(), models.RoleAdmin, found.Role)
	assert.True(s.T(), found.IsAdmin())
}

func (s *UserRepositoryTestSuite) TestSoftDeletedUserNotFound() {
	user := s.newUser("gone", "gone@example.com")
	require.NoError(s.T(), s.userRepo.CreateUser(user))

	require.NoError(s.T(), s.userRepo.SoftDeleteUser(user.ID))

	found, err := s.userRepo.GetUserByEmail("gone@example.com")
	require.NoError(s.T(), err)
	assert.Nil(s.T(), found, "Soft-deleted users are invisible to lookups")

	// Still visible to the unscoped admin listing.
	users, err := s.userRepo.GetAllUsers()
	require.NoError(s.T(), err)
	assert.Len(s.T(), users, 1)
}

func TestUserRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(UserRepositoryTestSuite))
}

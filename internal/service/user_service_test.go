package service

import (
	"testing"

	"github.com/farmmitra/farmmitra-api/internal/config"
	"github.com/farmmitra/farmmitra-api/internal/models"
	"github.com/farmmitra/farmmitra-api/internal/testutil"
	"golang.org/x/crypto/bcrypt"
)

func newTestUserService(repo *testutil.MockUserRepo) *UserService {
	return &UserService{
		Cfg:  &config.Config{},
		Repo: repo,
	}
}

func TestCreateUser_Success(t *testing.T) {
	repo := testutil.NewMockUserRepo()
	svc := newTestUserService(repo)

	user, err := svc.CreateUser("testuser", "Test", "+919876543210", "Password1!")
	if err != nil {
		t.Fatalf("CreateUser error: %v", err)
	}
	if user == nil {
		t.Fatal("CreateUser returned nil user")
	}
	if user.Username != "testuser" {
		t.Errorf("Username = %q, want 'testuser'", user.Username)
	}
	if user.Phone != "+919876543210" {
		t.Errorf("Phone = %q", user.Phone)
	}
	if user.Auth == nil {
		t.Fatal("Auth should not be nil")
	}
	if user.Auth.AuthType != models.Standard {
		t.Errorf("AuthType = %q, want 'standard'", user.Auth.AuthType)
	}
	// Verify password was hashed
	err = bcrypt.CompareHashAndPassword([]byte(user.Auth.HashedPassword), []byte("Password1!"))
	if err != nil {
		t.Error("Password was not correctly hashed")
	}
	// Verify default settings
	if user.Settings == nil || user.Settings.PreferredLanguage != "hi-IN" {
		t.Error("Default PreferredLanguage should be hi-IN")
	}
	if user.FarmProfile == nil || user.FarmProfile.Experience != models.ExperienceBeginner {
		t.Error("Default Experience should be beginner")
	}
}

func TestCreateUser_RepoError(t *testing.T) {
	repo := testutil.NewMockUserRepo()
	repo.CreateUserErr = errTest
	svc := newTestUserService(repo)

	_, err := svc.CreateUser("testuser", "Test", "+919876543210", "Password1!")
	if err == nil {
		t.Fatal("CreateUser should return error when repo fails")
	}
}

func TestLoginUser_Success(t *testing.T) {
	repo := testutil.NewMockUserRepo()
	svc := newTestUserService(repo)

	// Create a user first
	hashedPwd, _ := bcrypt.GenerateFromPassword([]byte("Password1!"), 10)
	user := &models.User{
		Username: "testuser",
		Auth: &models.UserAuth{
			HashedPassword: string(hashedPwd),
			AuthType:       models.Standard,
		},
		Settings:    &models.UserSettings{PreferredLanguage: "hi-IN"},
		FarmProfile: &models.FarmProfile{Experience: models.ExperienceBeginner},
	}
	repo.CreateUser(user)

	// Login
	loggedIn, err := svc.LoginUser("testuser", "Password1!")
	if err != nil {
		t.Fatalf("LoginUser error: %v", err)
	}
	if loggedIn == nil {
		t.Fatal("LoginUser returned nil user")
	}
	if loggedIn.Username != "testuser" {
		t.Errorf("LoginUser username = %q", loggedIn.Username)
	}
}

func TestLoginUser_WrongPassword(t *testing.T) {
	repo := testutil.NewMockUserRepo()
	svc := newTestUserService(repo)

	hashedPwd, _ := bcrypt.GenerateFromPassword([]byte("Correct1!"), 10)
	user := &models.User{
		Username: "testuser",
		Auth: &models.UserAuth{
			HashedPassword: string(hashedPwd),
			AuthType:       models.Standard,
		},
		Settings:    &models.UserSettings{},
		FarmProfile: &models.FarmProfile{},
	}
	repo.CreateUser(user)

	_, err := svc.LoginUser("testuser", "Wrong1!")
	if err == nil {
		t.Fatal("LoginUser with wrong password should return error")
	}
}

func TestLoginUser_UserNotFound(t *testing.T) {
	repo := testutil.NewMockUserRepo()
	svc := newTestUserService(repo)

	_, err := svc.LoginUser("nonexistent", "Password1!")
	if err == nil {
		t.Fatal("LoginUser with nonexistent user should return error")
	}
}

func TestValidatePassword_TooShort(t *testing.T) {
	svc := newTestUserService(testutil.NewMockUserRepo())
	err := svc.ValidatePassword("Ab1!")
	if err == nil {
		t.Error("ValidatePassword: too short should fail")
	}
}

func TestValidatePassword_NoUppercase(t *testing.T) {
	svc := newTestUserService(testutil.NewMockUserRepo())
	err := svc.ValidatePassword("password1!")
	if err == nil {
		t.Error("ValidatePassword: no uppercase should fail")
	}
}

func TestValidatePassword_NoLowercase(t *testing.T) {
	svc := newTestUserService(testutil.NewMockUserRepo())
	err := svc.ValidatePassword("PASSWORD1!")
	if err == nil {
		t.Error("ValidatePassword: no lowercase should fail")
	}
}

func TestValidatePassword_NoDigit(t *testing.T) {
	svc := newTestUserService(testutil.NewMockUserRepo())
	err := svc.ValidatePassword("Password!")
	if err == nil {
		t.Error("ValidatePassword: no digit should fail")
	}
}

func TestValidatePassword_NoSpecialChar(t *testing.T) {
	svc := newTestUserService(testutil.NewMockUserRepo())
	err := svc.ValidatePassword("Password1")
	if err == nil {
		t.Error("ValidatePassword: no special char should fail")
	}
}

func TestValidatePassword_Valid(t *testing.T) {
	svc := newTestUserService(testutil.NewMockUserRepo())
	err := svc.ValidatePassword("Password1!")
	if err != nil {
		t.Errorf("ValidatePassword: valid password should pass, got %v", err)
	}
}

func TestValidateUsername_TooShort(t *testing.T) {
	svc := newTestUserService(testutil.NewMockUserRepo())
	err := svc.ValidateUsername("ab")
	if err == nil {
		t.Error("ValidateUsername: too short should fail")
	}
}

func TestValidateUsername_NonAlphanumeric(t *testing.T) {
	svc := newTestUserService(testutil.NewMockUserRepo())
	err := svc.ValidateUsername("user@name")
	if err == nil {
		t.Error("ValidateUsername: non-alphanumeric should fail")
	}
}

func TestValidateUsername_Forbidden(t *testing.T) {
	svc := newTestUserService(testutil.NewMockUserRepo())
	err := svc.ValidateUsername("admin")
	if err == nil {
		t.Error("ValidateUsername: 'admin' should be forbidden")
	}
}

func TestValidateUsername_AlreadyTaken(t *testing.T) {
	repo := testutil.NewMockUserRepo()
	user := &models.User{Username: "existinguser"}
	repo.CreateUser(user)

	svc := newTestUserService(repo)
	err := svc.ValidateUsername("existinguser")
	if err == nil {
		t.Error("ValidateUsername: already taken should fail")
	}
}

func TestValidateUsername_Valid(t *testing.T) {
	svc := newTestUserService(testutil.NewMockUserRepo())
	err := svc.ValidateUsername("validuser123")
	if err != nil {
		t.Errorf("ValidateUsername: valid username should pass, got %v", err)
	}
}

func TestValidatePhone_Invalid(t *testing.T) {
	svc := newTestUserService(testutil.NewMockUserRepo())
	for _, phone := range []string{"not-a-phone", "12345", "+911234567890", "98765432101"} {
		if err := svc.ValidatePhone(phone); err == nil {
			t.Errorf("ValidatePhone(%q): invalid phone should fail", phone)
		}
	}
}

func TestValidatePhone_Valid(t *testing.T) {
	svc := newTestUserService(testutil.NewMockUserRepo())
	for _, phone := range []string{"+919876543210", "9876543210", "6123456789"} {
		if err := svc.ValidatePhone(phone); err != nil {
			t.Errorf("ValidatePhone(%q): valid phone should pass, got %v", phone, err)
		}
	}
}

func TestUpdatePreferredLanguage_Unsupported(t *testing.T) {
	repo := testutil.NewMockUserRepo()
	svc := newTestUserService(repo)
	user := testutil.TestUser()

	if err := svc.UpdatePreferredLanguage(user, "fr-FR"); err == nil {
		t.Error("UpdatePreferredLanguage: unsupported tag should fail")
	}
}

func TestToUserResponse(t *testing.T) {
	user := testutil.TestUser()
	resp := ToUserResponse(user)

	if resp.ID != "1" {
		t.Errorf("ID = %q, want '1'", resp.ID)
	}
	if resp.Username != "testuser" {
		t.Errorf("Username = %q, want 'testuser'", resp.Username)
	}
	if resp.FirstName != "Test" {
		t.Errorf("FirstName = %q", resp.FirstName)
	}
	if resp.Phone != "+919876543210" {
		t.Errorf("Phone = %q", resp.Phone)
	}
	if resp.Settings.PreferredLanguage != "hi-IN" {
		t.Errorf("PreferredLanguage = %q, want 'hi-IN'", resp.Settings.PreferredLanguage)
	}
	if resp.FarmProfile.District != "Nashik" {
		t.Errorf("District = %q", resp.FarmProfile.District)
	}
	if len(resp.FarmProfile.Crops) != 2 {
		t.Errorf("Crops = %v, want 2 entries", resp.FarmProfile.Crops)
	}
	if resp.FarmProfile.Experience != "intermediate" {
		t.Errorf("Experience = %q", resp.FarmProfile.Experience)
	}
}

// errTest is a shared test error for convenience.
var errTest = errTestType{}

type errTestType struct{}

func (e errTestType) Error() string { return "test error" }

package service

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	goaway "github.com/TwiN/go-away"
	"github.com/asaskevich/govalidator"
	"github.com/farmmitra/farmmitra-api/internal/config"
	"github.com/farmmitra/farmmitra-api/internal/models"
	"github.com/farmmitra/farmmitra-api/internal/repository"
	"github.com/farmmitra/farmmitra-api/internal/voice"
	"golang.org/x/crypto/bcrypt"
)

// UserService is the business logic layer for user-related operations.
type UserService struct {
	Cfg  *config.Config
	Repo repository.UserRepo
}

// UserResponse is the response object for user-related operations.
type UserResponse struct {
	ID          string              `json:"id"`
	Username    string              `json:"username"`
	FirstName   string              `json:"first_name"`
	Phone       string              `json:"phone"`
	Settings    SettingsResponse    `json:"settings"`
	FarmProfile FarmProfileResponse `json:"farm_profile"`
	CreatedAt   time.Time           `json:"createdAt"`
	UpdatedAt   time.Time           `json:"updatedAt"`
}

// SettingsResponse is the response object for user settings.
type SettingsResponse struct {
	PreferredLanguage string `json:"preferred_language"`
	VoiceGender       string `json:"voice_gender"`
}

// FarmProfileResponse is the response object for a user's farm profile.
type FarmProfileResponse struct {
	District      string   `json:"district"`
	State         string   `json:"state"`
	Crops         []string `json:"crops"`
	LandSizeAcres float64  `json:"land_size_acres"`
	Experience    string   `json:"experience"`
	UID           string   `json:"uid"`
}

// NewUserService is the constructor function for initializing a new UserService
func NewUserService(cfg *config.Config, repo repository.UserRepo) *UserService {
	return &UserService{
		Cfg:  cfg,
		Repo: repo,
	}
}

// CreateUser creates a new user.
func (s *UserService) CreateUser(username, firstName, phone, password string) (*models.User, error) {
	// Hash password
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), 10)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %v", err)
	}

	hashedPasswordStr := string(hashedPassword)

	// Create User and UserSettings
	user := &models.User{
		Username:  username,
		FirstName: firstName,
		Phone:     phone,
		Auth: &models.UserAuth{
			HashedPassword: hashedPasswordStr,
			AuthType:       models.Standard,
		},
		Subscription: &models.Subscription{
			Tier:           models.TierFree,
			MonthlyResetAt: time.Now().AddDate(0, 1, 0),
		},
		Settings: &models.UserSettings{
			PreferredLanguage: voice.DefaultLanguage, // Default value
		},
		FarmProfile: &models.FarmProfile{
			Experience: models.ExperienceBeginner, // Default value
		},
	}

	user, err = s.Repo.CreateUser(user)
	if err != nil {
		return nil, err
	}

	return user, nil
}

// LoginUser logs in a user.
func (s *UserService) LoginUser(username, password string) (*models.User, error) {
	user, err := s.Repo.GetUserAuthByUsername(username)
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Auth.HashedPassword), []byte(password)); err != nil {
		return nil, errors.New("invalid username or password")
	}

	return user, nil
}

// ToUserResponse converts a User to a UserResponse.
func ToUserResponse(user *models.User) *UserResponse {
	resp := &UserResponse{
		ID:        strconv.FormatUint(uint64(user.ID), 10),
		Username:  user.Username,
		FirstName: user.FirstName,
		Phone:     user.Phone,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
	if user.Settings != nil {
		resp.Settings = SettingsResponse{
			PreferredLanguage: user.Settings.PreferredLanguage,
			VoiceGender:       user.Settings.VoiceGender,
		}
	}
	if user.FarmProfile != nil {
		resp.FarmProfile = FarmProfileResponse{
			District:      user.FarmProfile.District,
			State:         user.FarmProfile.State,
			Crops:         user.FarmProfile.Crops,
			LandSizeAcres: user.FarmProfile.LandSizeAcres,
			Experience:    string(user.FarmProfile.Experience),
			UID:           user.FarmProfile.UID.String(),
		}
	}
	return resp
}

// GetUserByID gets a user by their ID.
func (s *UserService) GetUserByID(userID uint) (*models.User, error) {
	return s.Repo.GetUserByID(userID)
}

// UpdateFarmProfile updates a user's farm profile.
func (s *UserService) UpdateFarmProfile(user *models.User, updatedProfile *models.FarmProfile) error {
	return s.Repo.UpdateFarmProfile(user.ID, updatedProfile)
}

// UpdateUser updates a user's profile fields (first name, phone).
func (s *UserService) UpdateUser(user *models.User, firstName, phone string) error {
	if phone != "" && phone != user.Phone {
		if err := s.ValidatePhone(phone); err != nil {
			return err
		}
		if err := s.Repo.UpdateUserPhone(user.ID, phone); err != nil {
			return err
		}
	}
	if firstName != "" {
		if err := s.Repo.UpdateUserFirstName(user.ID, firstName); err != nil {
			return err
		}
	}
	return nil
}

// UpdatePreferredLanguage updates a user's preferred advisory language.
func (s *UserService) UpdatePreferredLanguage(user *models.User, language string) error {
	if !voice.Supported(language) {
		return fmt.Errorf("unsupported language: %s", language)
	}
	return s.Repo.UpdateUserSettingsPreferredLanguage(user.ID, language)
}

// ValidateUsername validates a username against a set of rules.
func (s *UserService) ValidateUsername(username string) error {
	// Check if the username already exists.
	// This is also caught as a known error in the repository.
	exists, err := s.Repo.UsernameExists(username)
	if err != nil {
		return fmt.Errorf("error checking username: %v", err)
	}
	if exists {
		return fmt.Errorf("username is already taken")
	}

	// Check if the username is long enough
	minLength := 3
	if len(username) < minLength {
		return fmt.Errorf("username must be at least %d characters", minLength)
	}

	// Check if the username is alphanumeric
	if !govalidator.IsAlphanumeric(username) {
		return fmt.Errorf("username can only contain alphanumeric characters")
	}

	// Define a list of forbidden usernames
	var forbiddenUsernames = []string{
		"admin",
		"administrator",
		"root",
		"sys",
		"sysadmin",
		"system",
		"test",
		"testuser",
		"test-user",
		"test_user",
		"login",
		"logout",
		"register",
		"password",
		"user",
		"newuser",
		"support",
		"help",
		"faq",
		"farmmitra",
		"farmmitra_ai",
		"farmmitra-ai",
		"farmmitraadmin",
		"farmmitra_admin",
		"farmmitra-admin",
		"farmmitraroot",
		"farmmitra_root",
		"farmmitra-root",
		"kisan",
		"mandi",
	}

	// Check if the username is in the forbidden list
	lowercaseUsername := strings.ToLower(username)
	for _, forbiddenUsername := range forbiddenUsernames {
		if strings.EqualFold(lowercaseUsername, forbiddenUsername) {
			return fmt.Errorf("username '%s' is not allowed", username)
		}
	}

	// Profanity check
	profanityDetector := goaway.NewProfanityDetector().WithSanitizeLeetSpeak(true).WithSanitizeSpecialCharacters(true).WithSanitizeAccents(false)
	if profanityDetector.IsProfane(username) {
		return fmt.Errorf("username contains inappropriate language")
	}

	// If we've passed all checks, the username is valid.
	return nil
}

// ValidatePhone validates an Indian mobile number (10 digits, optional +91).
func (s *UserService) ValidatePhone(phone string) error {
	matched, _ := regexp.MatchString(`^(\+91)?[6-9]\d{9}$`, phone)
	if !matched {
		return fmt.Errorf("invalid phone number format")
	}
	return nil
}

// ValidatePassword validates a password against a set of rules.
func (s *UserService) ValidatePassword(password string) error {
	if len(password) < 8 {
		return errors.New("password must be at least 8 characters long")
	}
	hasUppercase, _ := regexp.MatchString(`[A-Z]`, password)
	if !hasUppercase {
		return errors.New("password must contain at least one uppercase letter")
	}
	hasLowercase, _ := regexp.MatchString(`[a-z]`, password)
	if !hasLowercase {
		return errors.New("password must contain at least one lowercase letter")
	}
	hasNumber, _ := regexp.MatchString(`\d`, password)
	if !hasNumber {
		return errors.New("password must contain at least one digit")
	}
	hasSpecialChar, _ := regexp.MatchString(`[!@#$%^&*]`, password)
	if !hasSpecialChar {
		return errors.New("password must contain at least one special character")
	}
	return nil
}

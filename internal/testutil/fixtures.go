package testutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/courierhq/courier/internal/domain"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserBuilder creates test users with a builder pattern
type UserBuilder struct {
	username  string
	password  string
	firstName string
	lastName  string
	phone     string
}

// NewUserBuilder creates a new UserBuilder with default values
func NewUserBuilder() *UserBuilder {
	return &UserBuilder{
		username:  fmt.Sprintf("testuser_%s", uuid.New().String()[:8]),
		password:  "testpassword123",
		firstName: "Test",
		lastName:  "User",
		phone:     "+15550000000",
	}
}

// WithUsername sets the username
func (b *UserBuilder) WithUsername(username string) *UserBuilder {
	b.username = username
	return b
}

// WithPassword sets the password
func (b *UserBuilder) WithPassword(password string) *UserBuilder {
	b.password = password
	return b
}

// WithName sets first and last name
func (b *UserBuilder) WithName(first, last string) *UserBuilder {
	b.firstName = first
	b.lastName = last
	return b
}

// WithPhone sets the phone number
func (b *UserBuilder) WithPhone(phone string) *UserBuilder {
	b.phone = phone
	return b
}

// Build creates the user in the database and returns the user with the raw password
func (b *UserBuilder) Build(t *testing.T, db *gorm.DB) (*domain.User, string) {
	t.Helper()

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(b.password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &domain.User{
		Username:  b.username,
		Password:  string(hashedPassword),
		FirstName: b.firstName,
		LastName:  b.lastName,
		Phone:     b.phone,
		JoinAt:    time.Now(),
	}

	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	return user, b.password
}

// AuthResponse matches the API auth response
type AuthResponse struct {
	User struct {
		Username  string `json:"username"`
		FirstName string `json:"firstName"`
		LastName  string `json:"lastName"`
		Phone     string `json:"phone"`
	} `json:"user"`
	Token string `json:"token"`
}

// BuildAndAuthenticate creates a user via API and returns the username and token
func (b *UserBuilder) BuildAndAuthenticate(t *testing.T, ts *TestServer) (string, string) {
	t.Helper()

	reqBody := map[string]string{
		"username":  b.username,
		"password":  b.password,
		"firstName": b.firstName,
		"lastName":  b.lastName,
		"phone":     b.phone,
	}
	body, _ := json.Marshal(reqBody)

	resp, err := http.Post(ts.APIURL("/auth/register"), "application/json", bytes.NewBuffer(body))
	if err != nil {
		t.Fatalf("failed to register user: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("unexpected status code: %d", resp.StatusCode)
	}

	var authResp AuthResponse
	if err := json.NewDecoder(resp.Body).Decode(&authResp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	return authResp.User.Username, authResp.Token
}

// MessageBuilder creates test messages with a builder pattern
type MessageBuilder struct {
	from   string
	to     string
	body   string
	sentAt time.Time
}

// NewMessageBuilder creates a new MessageBuilder between two usernames
func NewMessageBuilder(from, to string) *MessageBuilder {
	return &MessageBuilder{
		from:   from,
		to:     to,
		body:   "test message body",
		sentAt: time.Now(),
	}
}

// WithBody sets the message body
func (b *MessageBuilder) WithBody(body string) *MessageBuilder {
	b.body = body
	return b
}

// WithSentAt sets the sent timestamp
func (b *MessageBuilder) WithSentAt(at time.Time) *MessageBuilder {
	b.sentAt = at
	return b
}

// Build creates the message in the database
func (b *MessageBuilder) Build(t *testing.T, db *gorm.DB) *domain.Message {
	t.Helper()

	message := &domain.Message{
		FromUsername: b.from,
		ToUsername:   b.to,
		Body:         b.body,
		SentAt:       b.sentAt,
	}

	if err := db.Omit("FromUser", "ToUser").Create(message).Error; err != nil {
		t.Fatalf("failed to create message: %v", err)
	}

	return message
}

// AuthedGet performs a GET request with a bearer token
func AuthedGet(t *testing.T, url, token string) *http.Response {
	t.Helper()

	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	return resp
}

// AuthedPost performs a POST request with a bearer token and JSON body
func AuthedPost(t *testing.T, url, token string, body interface{}) *http.Response {
	t.Helper()

	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("failed to marshal body: %v", err)
	}

	req, err := http.NewRequest(http.MethodPost, url, bytes.NewBuffer(payload))
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	return resp
}

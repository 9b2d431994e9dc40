package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/cama-app/apiserver/internal/services"
	"github.com/cama-app/apiserver/internal/store"
	"github.com/cama-app/apiserver/types"
	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
)

const defaultTokenTTL = 24 * time.Hour

const (
	maxMultipartMemory = 10 << 20
	maxUploadBytes     = 10 << 20
)

// AuthHandler provides signup, login and profile-setup endpoints.
type AuthHandler struct {
	userService    *services.UserService
	profileService *services.ProfileService
	secret         []byte
	tokenTTL       time.Duration
}

// NewAuthHandler constructs an AuthHandler with the provided dependencies.
func NewAuthHandler(userService *services.UserService, profileService *services.ProfileService, jwtSecret string) *AuthHandler {
	return &AuthHandler{
		userService:    userService,
		profileService: profileService,
		secret:         []byte(jwtSecret),
		tokenTTL:       defaultTokenTTL,
	}
}

// AuthRouter registers identity routes on the given router.
func AuthRouter(r chi.Router, userService *services.UserService, profileService *services.ProfileService, jwtSecret string) {
	handler := NewAuthHandler(userService, profileService, jwtSecret)

	r.Post("/signup", handler.Signup)
	r.Post("/login", handler.Login)
	r.Post("/setup-profile", handler.SetupProfile)
	r.Get("/profiles", handler.ListProfiles)
	r.With(handler.RequireAuth).Get("/me", handler.Me)
}

// RequireAuth enforces JWT authentication and injects the subject into context.
func (h *AuthHandler) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenString, err := bearerToken(r)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		subject, err := parseTokenSubject(tokenString, h.secret)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		ctx := r.Context()
		next.ServeHTTP(w, r.WithContext(contextWithSubject(ctx, subject)))
	})
}

type SignupRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type SignupResponse struct {
	Message string     `json:"message"`
	User    SignupUser `json:"user"`
}

type SignupUser struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
}

// Signup creates a new account.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "All fields are required.")
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		writeMessage(w, http.StatusBadRequest, "All fields are required.")
		return
	}

	account, err := h.userService.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, store.ErrConflict) {
			writeMessage(w, http.StatusConflict, "Username already exists.")
			return
		}
		writeMessage(w, http.StatusInternalServerError, "Database error")
		return
	}

	writeJSON(w, http.StatusOK, SignupResponse{
		Message: "User registered successfully!",
		User: SignupUser{
			ID:       account.ID,
			Username: account.Username,
		},
	})
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Success bool   `json:"success"`
	Role    string `json:"role,omitempty"`
	UserID  int    `json:"user_id,omitempty"`
	Token   string `json:"token,omitempty"`
	Message string `json:"message,omitempty"`
}

// Login authenticates and returns the derived role. Failures answer
// with success=false and one generic message for both unknown users
// and wrong passwords; the mobile client branches on the success flag.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusOK, LoginResponse{Success: false, Message: "Invalid credentials"})
		return
	}

	result, err := h.userService.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			writeJSON(w, http.StatusOK, LoginResponse{Success: false, Message: "Invalid credentials"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, LoginResponse{Success: false, Message: "Server error"})
		return
	}

	resp := LoginResponse{
		Success: true,
		Role:    result.Role,
		UserID:  result.UserID,
	}
	if result.Role != types.RoleAdmin && len(h.secret) > 0 {
		token, err := issueToken(result.UserID, h.secret, h.tokenTTL)
		if err == nil {
			resp.Token = token
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

type ProfileResponse struct {
	Message string        `json:"message"`
	Profile types.Profile `json:"profile"`
}

// SetupProfile creates the onboarding profile from a multipart form,
// with an optional profile_picture file.
func (h *AuthHandler) SetupProfile(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid form data")
		return
	}

	userID := strings.TrimSpace(r.FormValue("userId"))
	fullName := strings.TrimSpace(r.FormValue("fullName"))
	email := strings.TrimSpace(r.FormValue("email"))
	dob := strings.TrimSpace(r.FormValue("dob"))
	gender := strings.TrimSpace(r.FormValue("gender"))
	phone := strings.TrimSpace(r.FormValue("phone"))

	if userID == "" || fullName == "" || email == "" || dob == "" || gender == "" || phone == "" {
		writeMessage(w, http.StatusBadRequest, "All fields except profile picture are required.")
		return
	}

	id, err := strconv.Atoi(userID)
	if err != nil || id < 1 {
		writeMessage(w, http.StatusBadRequest, "Invalid user id")
		return
	}

	picture, err := parsePictureFile(r)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	profile, err := h.profileService.Create(r.Context(), types.Profile{
		UserID:      id,
		FullName:    fullName,
		Email:       email,
		DateOfBirth: dob,
		Gender:      gender,
		PhoneNumber: phone,
	}, picture)
	if err != nil {
		if errors.Is(err, store.ErrConflict) {
			writeMessage(w, http.StatusConflict, "Profile already exists")
			return
		}
		writeMessage(w, http.StatusInternalServerError, "Database error")
		return
	}

	writeJSON(w, http.StatusOK, ProfileResponse{
		Message: "Profile created successfully!",
		Profile: profile,
	})
}

// ListProfiles returns the id/name pairs the admin screens use to
// promote accounts to residents.
func (h *AuthHandler) ListProfiles(w http.ResponseWriter, r *http.Request) {
	names, err := h.profileService.ListNames(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	writeJSON(w, http.StatusOK, names)
}

// Me returns the current authenticated account.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	account, err := h.userService.GetByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to load account")
		return
	}

	writeJSON(w, http.StatusOK, account)
}

func parsePictureFile(r *http.Request) (*services.PictureUpload, error) {
	if r.MultipartForm == nil {
		return nil, nil
	}
	files := r.MultipartForm.File["profile_picture"]
	if len(files) == 0 {
		return nil, nil
	}

	fileHeader := files[0]
	file, err := fileHeader.Open()
	if err != nil {
		return nil, errors.New("failed to read profile picture")
	}

	data, err := readFileLimited(file, maxUploadBytes)
	_ = file.Close()
	if err != nil {
		return nil, err
	}

	return &services.PictureUpload{
		Filename:    fileHeader.Filename,
		Data:        data,
		ContentType: fileHeader.Header.Get("Content-Type"),
	}, nil
}

func contextWithSubject(ctx context.Context, subject string) context.Context {
	return context.WithValue(ctx, contextSubjectKey, subject)
}

func issueToken(userID int, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.Itoa(userID),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

func parseTokenSubject(tokenString string, secret []byte) (string, error) {
	claims := jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return secret, nil
	})
	if err != nil {
		return "", err
	}
	if !token.Valid {
		return "", errors.New("invalid token")
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return "", errors.New("missing subject")
	}
	return claims.Subject, nil
}

func bearerToken(r *http.Request) (string, error) {
	auth := strings.TrimSpace(r.Header.Get("Authorization"))
	if auth == "" {
		return "", errors.New("missing authorization")
	}
	parts := strings.SplitN(auth, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", errors.New("invalid authorization")
	}
	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", errors.New("invalid authorization")
	}
	return token, nil
}

package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/t4n15hq/luminari-be/internal/config"
	"github.com/t4n15hq/luminari-be/internal/db"
	"github.com/t4n15hq/luminari-be/internal/dto"
	"github.com/t4n15hq/luminari-be/internal/middleware"
	"github.com/t4n15hq/luminari-be/internal/models"
	"github.com/t4n15hq/luminari-be/internal/utils"
)

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	db     db.Querier
	cache  db.StatementCacheResetter
	jwtCfg *config.JWTConfig
	logger *zap.Logger
}

// NewAuthHandler creates a new AuthHandler instance
func NewAuthHandler(q db.Querier, cache db.StatementCacheResetter, jwtCfg *config.JWTConfig, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{db: q, cache: cache, jwtCfg: jwtCfg, logger: logger}
}

// Register handles user registration
// @Summary Register a new user
// @Description Create a new user account with username and password
// @Tags authentication
// @Accept json
// @Produce json
// @Param request body dto.RegisterRequest true "User registration data"
// @Success 201 {object} dto.AuthResponse "User created successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data or username taken"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /auth/register [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req dto.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	// Validate required fields
	if req.Username == "" || req.Password == "" {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Missing required fields", "Username and password are required")
		return
	}

	ctx := r.Context()

	// Check if the username is already taken
	exists, err := db.WithRetry(ctx, h.logger, db.DefaultPolicy, h.cache, func(ctx context.Context) (bool, error) {
		var id uuid.UUID
		err := h.db.QueryRow(ctx, "SELECT id FROM users WHERE username = $1", req.Username).Scan(&id)
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		if err != nil {
			return false, err
		}
		return true, nil
	})
	if err != nil {
		h.logger.Error("user lookup failed", zap.Error(err))
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Failed to create user", "Database error")
		return
	}
	if exists {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Username already exists", "Choose a different username")
		return
	}

	// Hash password; the plaintext never goes anywhere else
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		h.logger.Error("password hash failed", zap.Error(err))
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Failed to hash password", "Internal error")
		return
	}

	userID := uuid.New()
	now := time.Now()

	_, err = db.WithRetry(ctx, h.logger, db.DefaultPolicy, h.cache, func(ctx context.Context) (struct{}, error) {
		_, err := h.db.Exec(ctx,
			`INSERT INTO users (id, username, password_hash, created_at, updated_at)
			 VALUES ($1, $2, $3, $4, $5)`,
			userID, req.Username, string(hashedPassword), now, now)
		return struct{}{}, err
	})
	if err != nil {
		// Lost the race on the unique constraint: still a client error
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			utils.WriteErrorResponse(w, http.StatusBadRequest, "Username already exists", "Choose a different username")
			return
		}
		h.logger.Error("user insert failed", zap.Error(err))
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Failed to create user", "Database error")
		return
	}

	user := models.User{ID: userID, Username: req.Username, CreatedAt: now, UpdatedAt: now}
	utils.WriteJSONResponse(w, http.StatusCreated, dto.AuthResponse{
		User: dto.UserResponse{
			ID:        user.ID.String(),
			Username:  user.Username,
			CreatedAt: user.CreatedAt.Format(time.RFC3339),
		},
	})
}

// Login handles user login
// @Summary Login user
// @Description Authenticate user with username and password
// @Tags authentication
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Login credentials"
// @Success 200 {object} dto.AuthResponse "Login successful"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Invalid credentials"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	// Validate required fields
	if req.Username == "" || req.Password == "" {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Missing required fields", "Username and password are required")
		return
	}

	ctx := r.Context()

	user, err := db.WithRetry(ctx, h.logger, db.DefaultPolicy, h.cache, func(ctx context.Context) (models.User, error) {
		var u models.User
		err := h.db.QueryRow(ctx,
			"SELECT id, username, password_hash, created_at, updated_at FROM users WHERE username = $1",
			req.Username).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt)
		return u, err
	})
	if err != nil {
		// Uniform message: the caller must not learn whether the username
		// or the password was wrong. Specific cause stays in the log.
		h.logger.Info("login failed", zap.String("username", req.Username), zap.Error(err))
		h.writeInvalidCredentials(w)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		h.logger.Info("login failed", zap.String("username", req.Username), zap.String("reason", "password mismatch"))
		h.writeInvalidCredentials(w)
		return
	}

	token, err := middleware.GenerateToken(user.ID, user.Username, h.jwtCfg)
	if err != nil {
		h.logger.Error("token generation failed", zap.Error(err))
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Failed to generate token", "Internal error")
		return
	}

	utils.WriteJSONResponse(w, http.StatusOK, dto.AuthResponse{
		User: dto.UserResponse{
			ID:        user.ID.String(),
			Username:  user.Username,
			CreatedAt: user.CreatedAt.Format(time.RFC3339),
		},
		Token: token,
	})
}

// Verify returns the identity decoded from the bearer token
// @Summary Verify token
// @Description Validate the bearer token and return the identity it carries
// @Tags authentication
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.VerifyResponse "Token is valid"
// @Failure 401 {object} dto.ErrorResponse "Missing or invalid token"
// @Router /auth/verify [get]
func (h *AuthHandler) Verify(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		utils.WriteErrorResponse(w, http.StatusUnauthorized, "Unauthorized", "User not authenticated")
		return
	}
	username, _ := middleware.UsernameFromContext(r.Context())

	utils.WriteJSONResponse(w, http.StatusOK, dto.VerifyResponse{
		Valid:    true,
		UserID:   userID.String(),
		Username: username,
	})
}

func (h *AuthHandler) writeInvalidCredentials(w http.ResponseWriter) {
	utils.WriteErrorResponse(w, http.StatusUnauthorized, "Invalid credentials", "Username or password is incorrect")
}

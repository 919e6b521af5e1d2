package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/01moynul/glowbeauty-golang/internal/middleware"
	"github.com/01moynul/glowbeauty-golang/internal/models"
	"github.com/01moynul/glowbeauty-golang/internal/otp"
	"github.com/01moynul/glowbeauty-golang/internal/store"
)

// --- Registration & Login ---

// SignupInput is the body of POST /api/auth/signup.
// It is separate from models.User so clients cannot set id, role or flags.
type SignupInput struct {
	FirstName       string `json:"firstName" binding:"required"`
	LastName        string `json:"lastName" binding:"required"`
	Email           string `json:"email" binding:"required,email"`
	Phone           string `json:"phone" binding:"required"`
	Password        string `json:"password" binding:"required,min=6"`
	ConfirmPassword string `json:"confirmPassword" binding:"required"`
}

// LoginInput is the body of POST /api/auth/login.
type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Signup creates a customer account and signs it in.
func (h *Handlers) Signup(c *gin.Context) {
	ctx := c.Request.Context()

	// 1. --- Bind & Validate JSON ---
	var input SignupInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if input.Password != input.ConfirmPassword {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Passwords do not match"})
		return
	}
	phone, err := otp.NormalizePhone(input.Phone)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// 2. --- Check Email Availability ---
	if _, err := h.Store.GetUserByEmail(ctx, input.Email); err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "User with this email already exists"})
		return
	} else if !errors.Is(err, store.ErrNotFound) {
		h.storeError(c, err, "User", "create account")
		return
	}

	// 3. --- Hash the Password ---
	var password models.Password
	if err := password.Set(input.Password); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	// 4. --- Save to Database ---
	user := &models.User{
		FirstName:     input.FirstName,
		LastName:      input.LastName,
		Email:         input.Email,
		Phone:         phone,
		PasswordHash:  password.Hash,
		Role:          models.RoleUser,
		PhoneVerified: h.OTP != nil && h.OTP.IsVerified(phone),
	}
	if err := h.Store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			c.JSON(http.StatusConflict, gin.H{"error": "User with this email already exists"})
			return
		}
		h.storeError(c, err, "User", "create account")
		return
	}

	// 5. --- Issue Token ---
	token, err := h.Tokens.GenerateToken(user.ID, user.Role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Account created successfully",
		"user":    user,
		"token":   token,
	})
}

// Login checks the email/password pair and returns a session token.
func (h *Handlers) Login(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// 1. --- Find User ---
	user, err := h.Store.GetUserByEmail(c.Request.Context(), input.Email)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}
	if err != nil {
		h.storeError(c, err, "User", "log in")
		return
	}

	// 2. --- Check Password ---
	pw := models.Password{Hash: user.PasswordHash}
	match, err := pw.Matches(input.Password)
	if err != nil {
		h.log().Error("password comparison failed", "user_id", user.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to log in"})
		return
	}
	if !match {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}

	// 3. --- Issue Token ---
	token, err := h.Tokens.GenerateToken(user.ID, user.Role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Login successful", "user": user, "token": token})
}

// Logout is a no-op for stateless tokens; the client drops its copy.
func (h *Handlers) Logout(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

// Validate handles GET /api/auth/validate
func (h *Handlers) Validate(c *gin.Context) {
	userID, _ := middleware.UserID(c)
	user, err := h.Store.GetUserByID(c.Request.Context(), userID)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusUnauthorized, gin.H{"valid": false, "error": "Invalid user"})
		return
	}
	if err != nil {
		h.storeError(c, err, "User", "validate session")
		return
	}
	c.JSON(http.StatusOK, gin.H{"valid": true, "user": user})
}

// --- OTP ---

type sendEmailOTPInput struct {
	Email string `json:"email" binding:"required"`
}

type verifyEmailOTPInput struct {
	Email string `json:"email" binding:"required"`
	OTP   string `json:"otp" binding:"required"`
}

type sendMobileOTPInput struct {
	Phone string `json:"phone" binding:"required"`
}

type verifyMobileOTPInput struct {
	Phone string `json:"phone" binding:"required"`
	OTP   string `json:"otp" binding:"required"`
}

func (h *Handlers) otpSendError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, otp.ErrInvalidEmail), errors.Is(err, otp.ErrInvalidPhone):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, otp.ErrRateLimited):
		c.JSON(http.StatusTooManyRequests, gin.H{"error": err.Error()})
	default:
		h.log().Error("send otp failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send OTP"})
	}
}

// SendOTP handles POST /api/auth/send-otp
func (h *Handlers) SendOTP(c *gin.Context) {
	var input sendEmailOTPInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email is required"})
		return
	}
	res, err := h.OTP.SendOTP(c.Request.Context(), input.Email)
	if err != nil {
		h.otpSendError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":   "OTP sent successfully",
		"email":     res.Key,
		"expiresAt": res.ExpiresAt,
	})
}

// VerifyOTP handles POST /api/auth/verify-otp
func (h *Handlers) VerifyOTP(c *gin.Context) {
	var input verifyEmailOTPInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email and OTP are required"})
		return
	}
	if err := h.OTP.VerifyOTP(input.Email, input.OTP); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.Store.MarkEmailVerified(c.Request.Context(), input.Email); err != nil {
		h.log().Error("mark email verified failed", "error", err)
	}
	c.JSON(http.StatusOK, gin.H{"verified": true, "message": "Email verified successfully"})
}

// SendMobileOTP handles POST /api/auth/send-mobile-otp
func (h *Handlers) SendMobileOTP(c *gin.Context) {
	var input sendMobileOTPInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Phone number is required"})
		return
	}
	res, err := h.OTP.SendMobileOTP(c.Request.Context(), input.Phone)
	if err != nil {
		h.otpSendError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":   "OTP sent successfully",
		"phone":     res.Key,
		"expiresAt": res.ExpiresAt,
	})
}

// VerifyMobileOTP handles POST /api/auth/verify-mobile-otp
func (h *Handlers) VerifyMobileOTP(c *gin.Context) {
	var input verifyMobileOTPInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Phone number and OTP are required"})
		return
	}
	if err := h.OTP.VerifyMobileOTP(input.Phone, input.OTP); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if phone, err := otp.NormalizePhone(input.Phone); err == nil {
		if err := h.Store.MarkPhoneVerified(c.Request.Context(), phone); err != nil {
			h.log().Error("mark phone verified failed", "error", err)
		}
	}
	c.JSON(http.StatusOK, gin.H{"verified": true, "message": "Phone number verified successfully"})
}

// --- Profile ---

// UpdateProfileInput is the body of PUT /api/users/:id. Empty fields keep
// their current value.
type UpdateProfileInput struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email" binding:"omitempty,email"`
	Phone     string `json:"phone"`
}

// ChangePasswordInput is the body of PUT /api/users/:id/password.
type ChangePasswordInput struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=6"`
	ConfirmPassword string `json:"confirmPassword"`
}

// ownerOrAdmin rejects callers that are neither the given user nor an admin.
func ownerOrAdmin(c *gin.Context, ownerID int64) bool {
	callerID, _ := middleware.UserID(c)
	if callerID == ownerID || middleware.IsAdmin(c) {
		return true
	}
	c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
	return false
}

// UpdateProfile handles PUT /api/users/:id
func (h *Handlers) UpdateProfile(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok || !ownerOrAdmin(c, id) {
		return
	}
	var input UpdateProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	user, err := h.Store.GetUserByID(ctx, id)
	if err != nil {
		h.storeError(c, err, "User", "update profile")
		return
	}
	if input.FirstName != "" {
		user.FirstName = input.FirstName
	}
	if input.LastName != "" {
		user.LastName = input.LastName
	}
	if input.Email != "" {
		user.Email = input.Email
	}
	if input.Phone != "" {
		phone, err := otp.NormalizePhone(input.Phone)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		user.Phone = phone
	}

	if err := h.Store.UpdateUserProfile(ctx, user); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			c.JSON(http.StatusConflict, gin.H{"error": "Email is already in use"})
			return
		}
		h.storeError(c, err, "User", "update profile")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Profile updated successfully", "user": user})
}

// ChangePassword handles PUT /api/users/:id/password
func (h *Handlers) ChangePassword(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok || !ownerOrAdmin(c, id) {
		return
	}
	var input ChangePasswordInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if input.ConfirmPassword != "" && input.ConfirmPassword != input.NewPassword {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Passwords do not match"})
		return
	}

	ctx := c.Request.Context()
	user, err := h.Store.GetUserByID(ctx, id)
	if err != nil {
		h.storeError(c, err, "User", "change password")
		return
	}
	current := models.Password{Hash: user.PasswordHash}
	if match, err := current.Matches(input.CurrentPassword); err != nil || !match {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Current password is incorrect"})
		return
	}

	var next models.Password
	if err := next.Set(input.NewPassword); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}
	if err := h.Store.UpdateUserPassword(ctx, id, next.Hash); err != nil {
		h.storeError(c, err, "User", "change password")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password updated successfully"})
}

package auth

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rohandevadiga3333/wiz/config"
	"github.com/rohandevadiga3333/wiz/internal/middleware"
	"github.com/rohandevadiga3333/wiz/internal/team"
	"github.com/rohandevadiga3333/wiz/internal/user"
	"github.com/rohandevadiga3333/wiz/pkg/token"
	"github.com/rohandevadiga3333/wiz/pkg/utils"
	"gorm.io/gorm"
)

// maxTeamCodeAttempts bounds the uniqueness retry loop for generated codes.
const maxTeamCodeAttempts = 10

type AuthController struct {
	repo   AuthRepository
	config *config.Config
}

func NewAuthController(repo AuthRepository, cfg *config.Config) *AuthController {
	return &AuthController{
		repo:   repo,
		config: cfg,
	}
}

func (ac *AuthController) generateUniqueTeamCode() (string, error) {
	for i := 0; i < maxTeamCodeAttempts; i++ {
		code := utils.GenerateTeamCode()
		if code == "" {
			continue
		}
		exists, err := ac.repo.TeamCodeExists(code)
		if err != nil {
			return "", err
		}
		if !exists {
			return code, nil
		}
	}
	return "", errors.New("could not generate a unique team code")
}

// requireLeader verifies the caller is the leader of the given team. It
// writes the error response itself and reports whether to continue.
func (ac *AuthController) requireLeader(c *gin.Context, teamCode string) (uint, bool) {
	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized: " + err.Error()})
		return 0, false
	}

	isLeader, err := ac.repo.IsTeamLeader(teamCode, userID)
	if err != nil {
		log.Printf("leader check failed for user %d team %s: %v", userID, teamCode, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify team leadership"})
		return 0, false
	}
	if !isLeader {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the team leader can perform this action"})
		return 0, false
	}
	return userID, true
}

// @Summary      Register a team leader
// @Description  Create an approved leader account together with a new team and its join code.
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        user  body  RegisterLeaderRequest  true  "Leader registration details"
// @Success      201   {object} RegisterLeaderResponse "Leader and team created"
// @Failure      400   {object} map[string]string "Validation error"
// @Failure      409   {object} map[string]string "User with this email already exists"
// @Failure      500   {object} map[string]string "Internal server error"
// @Router       /auth/register-leader [post]
func (ac *AuthController) RegisterLeader(c *gin.Context) {
	var req RegisterLeaderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	if _, err := ac.repo.GetUserByEmail(strings.ToLower(req.Email)); !errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusConflict, gin.H{"error": "User with this email already exists"})
		return
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error hashing password"})
		return
	}

	teamCode, err := ac.generateUniqueTeamCode()
	if err != nil {
		log.Printf("team code generation failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate team code"})
		return
	}

	newLeader := &user.User{
		Email:    strings.ToLower(req.Email),
		Password: hashedPassword,
		Name:     req.Name,
		Role:     user.RoleLeader,
		TeamCode: teamCode,
		Status:   user.StatusApproved,
	}
	newTeam := &team.Team{
		TeamCode: teamCode,
		TeamName: req.TeamName,
	}

	if err := ac.repo.CreateLeaderWithTeam(newLeader, newTeam); err != nil {
		log.Printf("leader registration failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Registration failed"})
		return
	}

	c.JSON(http.StatusCreated, RegisterLeaderResponse{
		TeamCode: teamCode,
		User:     FilterUserRecord(newLeader),
	})
}

// @Summary      Register a team member
// @Description  Create a pending member account under an existing team code. A leader must approve it before login.
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        user  body  RegisterMemberRequest  true  "Member registration details"
// @Success      201   {object} RegisterMemberResponse "Member created in pending state"
// @Failure      400   {object} map[string]string "Validation error"
// @Failure      404   {object} map[string]string "Team not found"
// @Failure      409   {object} map[string]string "User with this email already exists"
// @Failure      500   {object} map[string]string "Internal server error"
// @Router       /auth/register-member [post]
func (ac *AuthController) RegisterMember(c *gin.Context) {
	var req RegisterMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	teamCode := strings.ToUpper(req.TeamCode)
	if _, err := ac.repo.GetTeamByCode(teamCode); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Team not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to look up team"})
		return
	}

	if _, err := ac.repo.GetUserByEmail(strings.ToLower(req.Email)); !errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusConflict, gin.H{"error": "User with this email already exists"})
		return
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error hashing password"})
		return
	}

	newMember := &user.User{
		Email:    strings.ToLower(req.Email),
		Password: hashedPassword,
		Name:     req.Name,
		Role:     user.RoleMember,
		TeamCode: teamCode,
		Status:   user.StatusPending,
	}

	if err := ac.repo.CreateUser(newMember); err != nil {
		log.Printf("member registration failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Registration failed"})
		return
	}

	c.JSON(http.StatusCreated, RegisterMemberResponse{User: FilterUserRecord(newMember)})
}

// @Summary      Login
// @Description  Authenticate with email, password and team code. Pending and rejected members are refused.
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        credentials  body  LoginRequest  true  "Login credentials"
// @Success      200   {object} LoginResponse "Login successful, returns session token and user"
// @Failure      400   {object} map[string]string "Invalid input"
// @Failure      401   {object} map[string]string "Invalid credentials"
// @Failure      403   {object} map[string]string "Membership pending or rejected"
// @Failure      500   {object} map[string]string "Internal server error"
// @Router       /auth/login [post]
func (ac *AuthController) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	foundUser, err := ac.repo.GetUserByEmailAndTeam(strings.ToLower(req.Email), strings.ToUpper(req.TeamCode))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Login failed"})
		return
	}

	if !utils.CheckPassword(foundUser.Password, req.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	if foundUser.Role == user.RoleMember {
		switch foundUser.Status {
		case user.StatusPending:
			c.JSON(http.StatusForbidden, gin.H{"error": "Your membership request is pending approval"})
			return
		case user.StatusRejected:
			c.JSON(http.StatusForbidden, gin.H{"error": "Your membership request was rejected"})
			return
		}
	}

	expiry := time.Duration(ac.config.JWT.ExpiryHours) * time.Hour
	if expiry <= 0 {
		expiry = token.DefaultExpiry
	}
	sessionToken, err := token.GenerateJWT(foundUser.ID, foundUser.Email, foundUser.Role, ac.config.JWT.Secret, expiry)
	if err != nil {
		log.Printf("token generation failed for user %d: %v", foundUser.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Token generation failed"})
		return
	}

	c.JSON(http.StatusOK, LoginResponse{
		Token: sessionToken,
		User:  FilterUserRecord(foundUser),
	})
}

// @Summary      Check member status
// @Description  Read-only pre-check reporting whether a login would succeed for this email and team. Does not reveal credential validity.
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        request  body  CheckMemberStatusRequest  true  "Email and team code"
// @Success      200   {object} CheckMemberStatusResponse
// @Failure      400   {object} map[string]string "Invalid input"
// @Failure      404   {object} map[string]string "User not found"
// @Router       /auth/check-member-status [post]
func (ac *AuthController) CheckMemberStatus(c *gin.Context) {
	var req CheckMemberStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	foundUser, err := ac.repo.GetUserByEmailAndTeam(strings.ToLower(req.Email), strings.ToUpper(req.TeamCode))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Status check failed"})
		return
	}

	c.JSON(http.StatusOK, CheckMemberStatusResponse{
		CanLogin: foundUser.CanLogin(),
		Status:   foundUser.Status,
	})
}

// @Summary      Get own profile
// @Tags         Auth
// @Security     BearerAuth
// @Produce      json
// @Success      200 {object} UserResponse
// @Failure      401 {object} map[string]string "Unauthorized"
// @Failure      404 {object} map[string]string "User not found"
// @Router       /auth/me [get]
func (ac *AuthController) GetProfile(c *gin.Context) {
	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized: " + err.Error()})
		return
	}

	currentUser, err := ac.repo.GetUserByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve profile"})
		return
	}
	c.JSON(http.StatusOK, FilterUserRecord(currentUser))
}

// @Summary      List all team members
// @Tags         Members
// @Security     BearerAuth
// @Produce      json
// @Param        teamCode  path  string  true  "Team code"
// @Success      200 {array} UserResponse
// @Failure      403 {object} map[string]string "Not the team leader"
// @Router       /auth/team/{teamCode}/all-members [get]
func (ac *AuthController) GetAllMembers(c *gin.Context) {
	teamCode := strings.ToUpper(c.Param("teamCode"))
	if _, ok := ac.requireLeader(c, teamCode); !ok {
		return
	}

	members, err := ac.repo.ListTeamMembers(teamCode)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve members"})
		return
	}
	c.JSON(http.StatusOK, FilterUserRecords(members))
}

// @Summary      List pending membership requests
// @Tags         Members
// @Security     BearerAuth
// @Produce      json
// @Param        teamCode  path  string  true  "Team code"
// @Success      200 {array} UserResponse
// @Failure      403 {object} map[string]string "Not the team leader"
// @Router       /auth/team/{teamCode}/pending-requests [get]
func (ac *AuthController) GetPendingRequests(c *gin.Context) {
	ac.listMembersByStatus(c, user.StatusPending)
}

// @Summary      List rejected members
// @Tags         Members
// @Security     BearerAuth
// @Produce      json
// @Param        teamCode  path  string  true  "Team code"
// @Success      200 {array} UserResponse
// @Failure      403 {object} map[string]string "Not the team leader"
// @Router       /auth/team/{teamCode}/rejected-members [get]
func (ac *AuthController) GetRejectedMembers(c *gin.Context) {
	ac.listMembersByStatus(c, user.StatusRejected)
}

func (ac *AuthController) listMembersByStatus(c *gin.Context, status string) {
	teamCode := strings.ToUpper(c.Param("teamCode"))
	if _, ok := ac.requireLeader(c, teamCode); !ok {
		return
	}

	members, err := ac.repo.ListTeamMembersByStatus(teamCode, status)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve members"})
		return
	}
	c.JSON(http.StatusOK, FilterUserRecords(members))
}

// @Summary      Approve a pending member
// @Tags         Members
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body  MemberActionRequest  true  "Member and team"
// @Success      200 {object} map[string]string
// @Failure      403 {object} map[string]string "Not the team leader"
// @Failure      404 {object} map[string]string "Member not found or already processed"
// @Router       /auth/approve-member [post]
func (ac *AuthController) ApproveMember(c *gin.Context) {
	ac.transitionMember(c, user.StatusPending, user.StatusApproved, "Member approved")
}

// @Summary      Reject a pending member
// @Tags         Members
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body  MemberActionRequest  true  "Member and team"
// @Success      200 {object} map[string]string
// @Failure      403 {object} map[string]string "Not the team leader"
// @Failure      404 {object} map[string]string "Member not found or already processed"
// @Router       /auth/reject-member [post]
func (ac *AuthController) RejectMember(c *gin.Context) {
	ac.transitionMember(c, user.StatusPending, user.StatusRejected, "Member rejected")
}

// @Summary      Approve a previously rejected member
// @Tags         Members
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body  MemberActionRequest  true  "Member and team"
// @Success      200 {object} map[string]string
// @Failure      403 {object} map[string]string "Not the team leader"
// @Failure      404 {object} map[string]string "Member not found or not rejected"
// @Router       /auth/approve-rejected-member [post]
func (ac *AuthController) ApproveRejectedMember(c *gin.Context) {
	ac.transitionMember(c, user.StatusRejected, user.StatusApproved, "Member approved")
}

func (ac *AuthController) transitionMember(c *gin.Context, from, to, successMessage string) {
	var req MemberActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	teamCode := strings.ToUpper(req.TeamCode)
	leaderID, ok := ac.requireLeader(c, teamCode)
	if !ok {
		return
	}

	rows, err := ac.repo.TransitionMemberStatus(req.UserID, teamCode, from, to, leaderID)
	if err != nil {
		log.Printf("member transition %s->%s failed: %v", from, to, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update member status"})
		return
	}
	if rows == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Member not found or request already processed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": successMessage})
}

// @Summary      Delete a rejected member
// @Tags         Members
// @Security     BearerAuth
// @Produce      json
// @Param        userId  path  int  true  "User ID"
// @Success      200 {object} map[string]string
// @Failure      403 {object} map[string]string "Not the team leader"
// @Failure      404 {object} map[string]string "Rejected member not found"
// @Router       /auth/delete-rejected-member/{userId} [delete]
func (ac *AuthController) DeleteRejectedMember(c *gin.Context) {
	userID, err := strconv.ParseUint(c.Param("userId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	target, err := ac.repo.GetUserByID(uint(userID))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to look up user"})
		return
	}

	if _, ok := ac.requireLeader(c, target.TeamCode); !ok {
		return
	}

	rows, err := ac.repo.DeleteRejectedMember(uint(userID))
	if err != nil {
		log.Printf("delete rejected member %d failed: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete member"})
		return
	}
	if rows == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Rejected member not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Rejected member deleted"})
}

// @Summary      Remove a member from the team
// @Description  Leader-only. Releases any subtasks assigned to the member before deleting the account.
// @Tags         Members
// @Security     BearerAuth
// @Produce      json
// @Param        teamCode  path  string  true  "Team code"
// @Param        memberId  path  int     true  "Member user ID"
// @Success      200 {object} map[string]string
// @Failure      400 {object} map[string]string "Self-deletion rejected"
// @Failure      403 {object} map[string]string "Not the team leader"
// @Failure      404 {object} map[string]string "Member not found in this team"
// @Router       /auth/team/{teamCode}/member/{memberId} [delete]
func (ac *AuthController) DeleteTeamMember(c *gin.Context) {
	teamCode := strings.ToUpper(c.Param("teamCode"))
	memberID, err := strconv.ParseUint(c.Param("memberId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid member ID"})
		return
	}

	leaderID, ok := ac.requireLeader(c, teamCode)
	if !ok {
		return
	}

	if uint(memberID) == leaderID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Leaders cannot delete themselves"})
		return
	}

	target, err := ac.repo.GetUserByID(uint(memberID))
	if err != nil || target.TeamCode != teamCode || target.Role != user.RoleMember {
		c.JSON(http.StatusNotFound, gin.H{"error": "Member not found in this team"})
		return
	}

	if err := ac.repo.DeleteTeamMember(uint(memberID)); err != nil {
		log.Printf("delete team member %d failed: %v", memberID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete member"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Member removed from team"})
}

package services

import (
	"errors"
	"log"
	"time"

	"vendor-match-system/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthService struct {
	DB        *gorm.DB
	jwtSecret []byte
}

func NewAuthService(db *gorm.DB, jwtSecret string) *AuthService {
	return &AuthService{DB: db, jwtSecret: []byte(jwtSecret)}
}

type registerRequest struct {
	CompanyName string `json:"company_name"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	Role        string `json:"role"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register creates a client account with a bcrypt-hashed password.
func (s *AuthService) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON", "details": err.Error()})
	}
	if req.CompanyName == "" || req.Email == "" || len(req.Password) < 8 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "company_name, email and a password of at least 8 characters are required",
		})
	}

	var count int64
	if err := s.DB.Model(&models.Client{}).Where("contact_email = ?", req.Email).Count(&count).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "database error"})
	}
	if count > 0 {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "email already exists"})
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to hash password"})
	}

	role := req.Role
	if role != models.RoleAdmin {
		role = models.RoleClient
	}

	client := models.Client{
		CompanyName:  req.CompanyName,
		ContactEmail: req.Email,
		Password:     string(hash),
		Role:         role,
	}
	if err := s.DB.Create(&client).Error; err != nil {
		log.Printf("DB Error creating client: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to create client"})
	}

	return c.Status(fiber.StatusCreated).JSON(client)
}

// Login verifies credentials and issues a 24h HS256 token.
func (s *AuthService) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON", "details": err.Error()})
	}

	var client models.Client
	if err := s.DB.Where("contact_email = ?", req.Email).First(&client).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid credentials"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "database error"})
	}

	if bcrypt.CompareHashAndPassword([]byte(client.Password), []byte(req.Password)) != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid credentials"})
	}

	token, err := s.signToken(&client)
	if err != nil {
		log.Printf("Failed to sign token for %s: %v", client.ContactEmail, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to issue token"})
	}

	return c.JSON(fiber.Map{
		"access_token": token,
		"user": fiber.Map{
			"id":      client.ID,
			"email":   client.ContactEmail,
			"company": client.CompanyName,
			"role":    client.Role,
		},
	})
}

func (s *AuthService) signToken(client *models.Client) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":     client.ID,
		"email":   client.ContactEmail,
		"role":    client.Role,
		"company": client.CompanyName,
		"iat":     now.Unix(),
		"exp":     now.Add(24 * time.Hour).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
}

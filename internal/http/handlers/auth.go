package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"backend/internal/domain"
	"backend/internal/domain/models"
	"backend/internal/http/middleware"
	"backend/internal/repositories"
)

type registerRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	CPF      string `json:"cpf" binding:"required,cpf"`
	Phone    string `json:"phone"`
	Password string `json:"password" binding:"required,min=8"`
}

// POST /api/auth/register
func Register(c *gin.Context) {
	var req registerRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	repo := repositories.CustomerRepository{}
	customer, err := repo.Upsert(models.Customer{
		Name:  req.Name,
		Email: req.Email,
		CPF:   req.CPF,
		Phone: req.Phone,
	})
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "falha ao processar a senha", nil)
		return
	}
	if err := repo.SetPassword(customer.ID, string(hash)); err != nil {
		RespondDomainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":  "cadastro realizado",
		"customer": customer,
	})
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// POST /api/auth/login
func Login(c *gin.Context) {
	var req loginRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	repo := repositories.CustomerRepository{}
	customer, hash, err := repo.GetAuthByEmail(req.Email)
	if err != nil {
		if domain.IsNotFound(err) {
			RespondError(c, http.StatusUnauthorized, "email ou senha incorretos", nil)
			return
		}
		RespondDomainError(c, err)
		return
	}

	if hash == "" || bcrypt.CompareHashAndPassword([]byte(hash), []byte(req.Password)) != nil {
		RespondError(c, http.StatusUnauthorized, "email ou senha incorretos", nil)
		return
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"customer_id": customer.ID,
		"role":        customer.Role,
		"exp":         time.Now().Add(24 * time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(env.JWTSecret))
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "falha ao gerar o token", nil)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":    signed,
		"customer": customer,
	})
}

// GET /api/me
func Me(c *gin.Context) {
	id := middleware.CustomerID(c)
	if id == 0 {
		RespondError(c, http.StatusUnauthorized, "não autenticado", nil)
		return
	}
	customer, err := repositories.CustomerRepository{}.GetByID(id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, customer)
}

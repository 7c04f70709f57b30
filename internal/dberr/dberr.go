package dberr

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgconn"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// StoreError é o formato que chega ao cliente no lugar do texto cru do
// Postgres: mensagem legível + tag de constraint verificável por máquina.
type StoreError struct {
	Message    string `json:"message"`
	Constraint string `json:"constraint,omitempty"`
	Hint       string `json:"hint,omitempty"`
}

// Códigos do Postgres que viram erro de cliente.
const (
	codeNotNull    = "23502"
	codeForeignKey = "23503"
	codeUnique     = "23505"
)

// Translate converte um erro do GORM/Postgres num erro HTTP. Violações de
// constraint viram 400/409 com StoreError; registro inexistente vira 404;
// o resto vira 500 genérico com detalhe apenas no log do servidor.
func Translate(err error, notFoundMsg string) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fiber.NewError(fiber.StatusNotFound, notFoundMsg)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeUnique:
			return conflict(StoreError{
				Message:    "Já existe um registro com esse valor",
				Constraint: pgErr.ConstraintName,
				Hint:       "Verifique os campos únicos (ex: email, nome)",
			})
		case codeForeignKey:
			return badRequest(StoreError{
				Message:    "Referência a um registro inexistente",
				Constraint: pgErr.ConstraintName,
				Hint:       "Confira os ids informados",
			})
		case codeNotNull:
			return badRequest(StoreError{
				Message:    "Campo obrigatório ausente",
				Constraint: pgErr.ColumnName,
			})
		}
	}

	log.Errorf("Erro não tratado do banco: %v", err)
	return fiber.NewError(fiber.StatusInternalServerError, "Erro interno do servidor")
}

type httpStoreError struct {
	status int
	Detail StoreError
}

func (e *httpStoreError) Error() string { return e.Detail.Message }

// Handle serializa o StoreError; usado no ErrorHandler central do Fiber.
func Handle(c *fiber.Ctx, err error) (bool, error) {
	var se *httpStoreError
	if !errors.As(err, &se) {
		return false, nil
	}
	return true, c.Status(se.status).JSON(fiber.Map{
		"error":      se.Detail.Message,
		"constraint": se.Detail.Constraint,
		"hint":       se.Detail.Hint,
	})
}

func badRequest(det StoreError) error {
	return &httpStoreError{status: fiber.StatusBadRequest, Detail: det}
}

func conflict(det StoreError) error {
	return &httpStoreError{status: fiber.StatusConflict, Detail: det}
}

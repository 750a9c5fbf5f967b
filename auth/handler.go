package auth

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/julienschmidt/httprouter"
)

// ExceptionModel is the body of every non-validation error response.
type ExceptionModel struct {
	ClassName string `json:"className"`
	Message   string `json:"message"`
}

type loginResponse struct {
	Token     string    `json:"token"`
	TokenType string    `json:"tokenType"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type accountResponse struct {
	ID        ID        `json:"id"`
	Email     string    `json:"email"`
	Username  string    `json:"userName"`
	CreatedAt time.Time `json:"createdAt"`
}

type ctxKey struct{}

// NewRouter mounts the auth endpoints.
func NewRouter(svc Service, tokens *Tokens, logger *slog.Logger) *httprouter.Router {
	router := httprouter.New()
	router.Handler(http.MethodPost, "/auth/signup", RegisterAccountHandler(svc, logger))
	router.Handler(http.MethodPost, "/auth/login", LoginHandler(svc, logger))
	router.Handler(http.MethodGet, "/auth/me", RequireAuth(tokens, GetAccountHandler(svc, logger)))
	return router
}

func RegisterAccountHandler(svc Service, logger *slog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !isJSON(r) {
			writeJSON(w, http.StatusUnsupportedMediaType, ExceptionModel{
				ClassName: "RegistrationRequest",
				Message:   "Content-Type must be application/json",
			})
			return
		}

		req, err := decodeRegisterAccountRequest(r)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, ValidationErrors{{Field: "body", Message: "must be a valid JSON object"}})
			return
		}

		if _, err := svc.RegisterAccount(r.Context(), req); err != nil {
			encodeError(r.Context(), err, w, logger)
			return
		}

		w.WriteHeader(http.StatusCreated)
	})
}

func LoginHandler(svc Service, logger *slog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req, err := decodeLoginRequest(r)
		if err != nil {
			encodeError(r.Context(), err, w, logger)
			return
		}

		token, err := svc.Login(r.Context(), req)
		if err != nil {
			encodeError(r.Context(), err, w, logger)
			return
		}

		writeJSON(w, http.StatusOK, loginResponse{Token: token.Value, TokenType: "Bearer", ExpiresAt: token.ExpiresAt})
	})
}

func GetAccountHandler(svc Service, logger *slog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := AccountIDFromContext(r.Context())
		if !ok {
			encodeError(r.Context(), ErrInvalidToken, w, logger)
			return
		}

		acc, err := svc.GetAccount(r.Context(), id)
		if err != nil {
			encodeError(r.Context(), err, w, logger)
			return
		}

		writeJSON(w, http.StatusOK, accountResponse{
			ID:        acc.ID,
			Email:     acc.Credentials.Email,
			Username:  acc.Credentials.Username,
			CreatedAt: acc.CreatedAt,
		})
	})
}

// RequireAuth rejects requests without a valid bearer token and stores the
// token's account ID in the request context.
func RequireAuth(tokens *Tokens, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := r.Header.Get("Authorization")
		if !strings.HasPrefix(h, "Bearer ") {
			writeJSON(w, http.StatusUnauthorized, ExceptionModel{ClassName: "SessionToken", Message: "missing bearer token"})
			return
		}

		claims, err := tokens.Parse(strings.TrimPrefix(h, "Bearer "))
		if err != nil {
			writeJSON(w, http.StatusUnauthorized, ExceptionModel{ClassName: "SessionToken", Message: ErrInvalidToken.Error()})
			return
		}

		ctx := context.WithValue(r.Context(), ctxKey{}, ID(claims.Subject))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func AccountIDFromContext(ctx context.Context) (ID, bool) {
	id, ok := ctx.Value(ctxKey{}).(ID)
	return id, ok
}

func encodeError(ctx context.Context, err error, w http.ResponseWriter, logger *slog.Logger) {
	var (
		verrs ValidationErrors
		dup   *DuplicateEmailError
	)
	switch {
	case errors.As(err, &verrs):
		writeJSON(w, http.StatusBadRequest, verrs)
	case errors.As(err, &dup):
		writeJSON(w, http.StatusConflict, ExceptionModel{ClassName: dup.ClassName(), Message: dup.Error()})
	case errors.Is(err, ErrInvalidCredentials):
		writeJSON(w, http.StatusUnauthorized, ExceptionModel{ClassName: AccountClassName, Message: "Invalid email or password"})
	case errors.Is(err, ErrInvalidToken):
		writeJSON(w, http.StatusUnauthorized, ExceptionModel{ClassName: "SessionToken", Message: ErrInvalidToken.Error()})
	case errors.Is(err, ErrNotFound):
		writeJSON(w, http.StatusNotFound, ExceptionModel{ClassName: AccountClassName, Message: err.Error()})
	default:
		logger.ErrorContext(ctx, "request failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, ExceptionModel{ClassName: "InternalError", Message: "internal server error"})
	}
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func isJSON(r *http.Request) bool {
	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mt == "application/json"
}

func decodeRegisterAccountRequest(r *http.Request) (RegisterAccountRequest, error) {
	req := RegisterAccountRequest{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return RegisterAccountRequest{}, err
	}
	return req, nil
}

func decodeLoginRequest(r *http.Request) (LoginRequest, error) {
	q := r.URL.Query()
	req := LoginRequest{Email: q.Get("email"), Password: q.Get("password")}

	var errs ValidationErrors
	if req.Email == "" {
		errs = append(errs, ValidationError{Field: "email", Message: "is required"})
	}
	if req.Password == "" {
		errs = append(errs, ValidationError{Field: "password", Message: "is required"})
	}
	if len(errs) > 0 {
		return LoginRequest{}, errs
	}
	return req, nil
}

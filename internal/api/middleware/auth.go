package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gorilla/mux"
	"golang.org/x/crypto/bcrypt"

	"github.com/m04kA/BarberBookingService/internal/api/handlers"
)

const msgUnauthorized = "требуется авторизация администратора"

// AdminAuth проверяет Basic-авторизацию единственного администратора.
// Пароль сравнивается с bcrypt-хэшем из конфигурации.
func AdminAuth(username, passwordHash string, log Logger) mux.MiddlewareFunc {
	hash := []byte(passwordHash)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, password, ok := r.BasicAuth()
			if !ok {
				w.Header().Set("WWW-Authenticate", `Basic realm="admin", charset="UTF-8"`)
				handlers.RespondUnauthorized(w, msgUnauthorized)
				return
			}

			userOK := subtle.ConstantTimeCompare([]byte(user), []byte(username)) == 1
			passwordOK := bcrypt.CompareHashAndPassword(hash, []byte(password)) == nil

			if !userOK || !passwordOK {
				log.Warn("AdminAuth: invalid credentials for user=%q from %s", user, remoteHost(r))
				w.Header().Set("WWW-Authenticate", `Basic realm="admin", charset="UTF-8"`)
				handlers.RespondUnauthorized(w, msgUnauthorized)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

package guard

import (
	"strings"

	"github.com/vladislavdragonenkov/wholesalebox/internal/domain"
)

// Decision — результат проверки доступа к странице. Либо Allow,
// либо редирект на RedirectTo; третьего состояния нет.
type Decision struct {
	Allow      bool
	RedirectTo string
}

func allow() Decision {
	return Decision{Allow: true}
}

func redirect(to string) Decision {
	return Decision{RedirectTo: to}
}

// Decide решает, может ли сессия открыть страницу path.
// Функция чистая: смотрит только на переданную сессию и путь, никаких
// обращений к хранилищу или сети. Все данные для решения обязан
// передать вызывающий.
//
// Правила:
//   - /login и /register — только для анонимов; вошедший уходит на свою
//     домашнюю страницу;
//   - /admin и всё под ним — только администратор;
//   - /dashboard, /cart, /order-history — только покупатель;
//   - /change-password — любой вошедший;
//   - корень перенаправляет по роли, аноним уходит на /login;
//   - незнакомый путь перенаправляется на корень.
func Decide(sess *domain.Session, path string) Decision {
	authed := sess.Authenticated()

	switch {
	case path == "/":
		if authed {
			return redirect(sess.Identity.Role.HomePath())
		}
		return redirect("/login")

	case path == "/login" || path == "/register":
		if authed {
			return redirect(sess.Identity.Role.HomePath())
		}
		return allow()

	case path == "/admin" || strings.HasPrefix(path, "/admin/"):
		return requireRole(sess, domain.RoleAdmin)

	case path == "/dashboard" || path == "/cart" || path == "/order-history":
		return requireRole(sess, domain.RoleCustomer)

	case path == "/change-password":
		if authed {
			return allow()
		}
		return redirect("/login")

	default:
		return redirect("/")
	}
}

// requireRole пускает только указанную роль. Аноним уходит на логин,
// чужая роль — на собственную домашнюю страницу, не на страницу ошибки.
func requireRole(sess *domain.Session, role domain.Role) Decision {
	if !sess.Authenticated() {
		return redirect("/login")
	}
	if sess.Identity.Role != role {
		return redirect(sess.Identity.Role.HomePath())
	}
	return allow()
}

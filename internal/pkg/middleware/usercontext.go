package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ryvynn-app/ryvynn/internal/pkg/session"
	"github.com/ryvynn-app/ryvynn/internal/pkg/usercontext"
)

// UserContextMiddleware resolves the session into a user context for
// every request. Anonymous requests get an empty context, not an error;
// route guards decide what requires login.
func UserContextMiddleware(c *fiber.Ctx) error {
	sess, err := session.GetSessionStore().Get(c)
	if err != nil {
		usercontext.SetUserContext(c, usercontext.UserContext{})
		return c.Next()
	}

	userID, ok := sess.Get(usercontext.KeyUserID).(uint)
	if !ok || userID == 0 {
		usercontext.SetUserContext(c, usercontext.UserContext{})
		return c.Next()
	}

	username, _ := sess.Get(usercontext.KeyUsername).(string)
	isAdmin, _ := sess.Get(usercontext.KeyIsAdmin).(bool)

	usercontext.SetUserContext(c, usercontext.UserContext{
		UserID:     userID,
		Username:   username,
		IsLoggedIn: true,
		IsAdmin:    isAdmin,
	})
	return c.Next()
}

package notify

import (
	"fmt"
	"strings"
)

// UserPattern is the slice of pattern data personalization needs: who the
// user is and which zone they frequent.
type UserPattern struct {
	UserID       string
	UserName     string
	GeofenceName string
}

// Personalize renders the outgoing message. Style tags containing "casual" or
// "discount" replace the template with a canned rewrite; anything else fills
// the {user_name} and {geofence} placeholders.
func Personalize(p UserPattern, template, style string) string {
	lowered := strings.ToLower(style)
	switch {
	case strings.Contains(lowered, "casual"):
		return fmt.Sprintf("Hey %s, loved %s? We've got some cool deals for you!", p.UserName, p.GeofenceName)
	case strings.Contains(lowered, "discount"):
		return fmt.Sprintf("%s, save big at %s with our exclusive offers!", p.UserName, p.GeofenceName)
	}

	msg := strings.ReplaceAll(template, "{user_name}", p.UserName)
	return strings.ReplaceAll(msg, "{geofence}", p.GeofenceName)
}

package db

// Keys of the persisted credential mapping.
const (
	KeyAccessToken  = "accessToken"
	KeyRefreshToken = "refreshToken"
	KeyRole         = "role"
	KeyUserID       = "userId"
	KeyEmail        = "email"
)

// SessionKeys lists every key a stored session writes, in persistence order.
var SessionKeys = []string{KeyAccessToken, KeyRefreshToken, KeyRole, KeyUserID, KeyEmail}

// Session represents the credentials of the signed-in user.
type Session struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	Role         string `json:"role"`
	UserID       string `json:"userId"`
	Email        string `json:"email"`
}

// Credential is one row of the flat credential mapping.
type Credential struct {
	Name  string `gorm:"primaryKey" json:"name"`
	Value string `json:"value"`
}

// Values flattens the session into the persisted key/value layout.
func (s Session) Values() map[string]string {
	return map[string]string{
		KeyAccessToken:  s.AccessToken,
		KeyRefreshToken: s.RefreshToken,
		KeyRole:         s.Role,
		KeyUserID:       s.UserID,
		KeyEmail:        s.Email,
	}
}

// SessionFromValues rebuilds a session from its key/value layout.
// The second result is false when no access token is present.
func SessionFromValues(values map[string]string) (Session, bool) {
	s := Session{
		AccessToken:  values[KeyAccessToken],
		RefreshToken: values[KeyRefreshToken],
		Role:         values[KeyRole],
		UserID:       values[KeyUserID],
		Email:        values[KeyEmail],
	}
	if s.AccessToken == "" {
		return Session{}, false
	}
	return s, true
}

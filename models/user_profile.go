package models

// UserProfile is the read-mostly snapshot of a user directory record. The
// directory is owned elsewhere; this core only consumes it for consent
// evaluation, discovery and display-field denormalization.
type UserProfile struct {
	UserID       string   `dynamodbav:"userId" json:"userId"`
	DisplayName  string   `dynamodbav:"displayName" json:"displayName"`
	Avatar       string   `dynamodbav:"avatar,omitempty" json:"avatar,omitempty"`
	Followers    []string `dynamodbav:"followers,omitempty" json:"followers,omitempty"`
	Following    []string `dynamodbav:"following,omitempty" json:"following,omitempty"`
	BlockedUsers []string `dynamodbav:"blockedUsers,omitempty" json:"blockedUsers,omitempty"`
	Privacy      Privacy  `dynamodbav:"privacy" json:"privacy"`
}

// Privacy holds the directory-owned messaging preference.
type Privacy struct {
	AllowMessagesFrom string `dynamodbav:"allowMessagesFrom,omitempty" json:"allowMessagesFrom,omitempty"`
}

// MessagesFrom returns the effective preference, defaulting to everyone.
func (p *UserProfile) MessagesFrom() string {
	if p.Privacy.AllowMessagesFrom == "" {
		return AllowMessagesEveryone
	}
	return p.Privacy.AllowMessagesFrom
}

// HasFollower reports whether userID is in the profile's follower list.
func (p *UserProfile) HasFollower(userID string) bool {
	for _, f := range p.Followers {
		if f == userID {
			return true
		}
	}
	return false
}

// HasBlocked reports whether the profile owner has blocked userID.
func (p *UserProfile) HasBlocked(userID string) bool {
	for _, b := range p.BlockedUsers {
		if b == userID {
			return true
		}
	}
	return false
}

const UserProfilesTable = "UserProfiles"

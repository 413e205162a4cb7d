package model

// Identity is the caller as established by the session provider. Id is the user's email.
type Identity struct {
	Id     string `json:"id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}

// Author returns the display fields stored on content created by this identity.
func (i *Identity) Author() (username *string, profilePicture *string) {
	id := i.Id
	username = &id
	if i.Avatar != "" {
		avatar := i.Avatar
		profilePicture = &avatar
	}
	return username, profilePicture
}

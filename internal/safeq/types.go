package safeq

import "time"

// Attribute kind codes used by the SafeQ user API. The backend stores
// additional user properties as numbered attribute records.
const (
	// AttrKindCard is the attribute kind holding a user's card identifier.
	AttrKindCard = 3
	// AttrKindDepartment is the attribute kind holding a user's department.
	AttrKindDepartment = 6
)

// Attribute is a single typed user attribute record.
type Attribute struct {
	Kind  int    `json:"kind"`
	Value string `json:"value"`
}

// User is the canonical user record returned by the SafeQ server.
type User struct {
	UserName   string      `json:"userName"`
	Email      string      `json:"email,omitempty"`
	Department string      `json:"department,omitempty"`
	Provider   string      `json:"provider,omitempty"`
	Attributes []Attribute `json:"attributes,omitempty"`
}

// Attribute returns the value of the first attribute with the given kind.
// The second return value reports whether such an attribute exists.
func (u *User) Attribute(kind int) (string, bool) {
	for _, a := range u.Attributes {
		if a.Kind == kind {
			return a.Value, true
		}
	}

	return "", false
}

// DerivedDepartment returns the user's department: the primary field when
// set, otherwise the first department attribute. The second return value is
// false when no department can be derived at all.
func (u *User) DerivedDepartment() (string, bool) {
	if u.Department != "" {
		return u.Department, true
	}

	return u.Attribute(AttrKindDepartment)
}

// Group is the canonical group record returned by the SafeQ server.
type Group struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// Document is a print job record.
type Document struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Owner      string    `json:"owner"`
	Department string    `json:"department,omitempty"`
	Pages      int       `json:"pages"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"createdAt"`
}

// groupWire mirrors the server's group JSON, which uses either "name" or
// "groupName" for the group name depending on the endpoint. It is normalized
// into the canonical Group at the client boundary; nothing above this package
// ever branches on the alternate keys.
type groupWire struct {
	Name        string `json:"name"`
	GroupName   string `json:"groupName"`
	Description string `json:"description"`
}

func (w groupWire) canonical() (Group, bool) {
	name := w.Name
	if name == "" {
		name = w.GroupName
	}

	if name == "" {
		return Group{}, false
	}

	return Group{Name: name, Description: w.Description}, true
}

// userWire mirrors the server's user JSON, which uses either "userName" or
// "username" depending on the endpoint.
type userWire struct {
	UserName   string      `json:"userName"`
	UserNameLC string      `json:"username"`
	Email      string      `json:"email"`
	Department string      `json:"department"`
	Provider   string      `json:"provider"`
	Attributes []Attribute `json:"attributes"`
}

func (w userWire) canonical() (User, bool) {
	name := w.UserName
	if name == "" {
		name = w.UserNameLC
	}

	if name == "" {
		return User{}, false
	}

	return User{
		UserName:   name,
		Email:      w.Email,
		Department: w.Department,
		Provider:   w.Provider,
		Attributes: w.Attributes,
	}, true
}

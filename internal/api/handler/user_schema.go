package handler

import "github.com/pinkbananas/users-api/internal/core/domain"

// userPayload is the wire shape of a User, used for both request and
// response bodies. The password is included in responses.
type userPayload struct {
	Username string `json:"username" example:"alice"`
	Password string `json:"password" example:"hunter2"`
	Name     string `json:"name"     example:"Alice"`
	Age      int32  `json:"age"      example:"30"`
	Streak   int32  `json:"streak"   example:"7"`
}

func toDomainUser(p userPayload) domain.User {
	return domain.NewUser(p.Username, p.Password, p.Name, p.Age, p.Streak)
}

func toUserPayload(u domain.User) userPayload {
	return userPayload{
		Username: u.Username,
		Password: u.Password,
		Name:     u.Name,
		Age:      u.Age,
		Streak:   u.Streak,
	}
}

func toUserPayloads(users []domain.User) []userPayload {
	out := make([]userPayload, 0, len(users))
	for _, u := range users {
		out = append(out, toUserPayload(u))
	}
	return out
}

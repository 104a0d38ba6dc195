package constants

const (
	EventTopicUserRegistered = "user.registered"
)

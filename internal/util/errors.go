package util

import "errors"

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrEmailRegistered  = errors.New("email already registered")
	ErrPlanNotFound     = errors.New("learning plan not found")
	ErrPlanNotOwned     = errors.New("learning plan does not belong to this user")
	ErrTopicNotFound    = errors.New("topic not found")
	ErrTopicLocked      = errors.New("topic is locked, complete previous topics first")
	ErrQuizNotFound     = errors.New("quiz not found")
	ErrQuizNotPassed    = errors.New("quiz must be passed before completing this topic")
	ErrAttemptsExceeded = errors.New("maximum quiz attempts exceeded")
	ErrMaterialNotFound = errors.New("material not found")
	ErrMaterialNotReady = errors.New("material has not been processed yet")
)

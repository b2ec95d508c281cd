package types

import "time"

// Users
type User struct {
	ID             string `gorm:"primaryKey;size:36"`
	Username       string `gorm:"size:64;unique;not null"`
	Email          string `gorm:"size:256;unique;not null"`
	PasswordHash   string `gorm:"size:128;not null"`
	DisplayName    string `gorm:"size:64"`
	PhotoURL       string `gorm:"size:512"`
	SelectedAvatar string `gorm:"size:32;default:default"`
	UserTitle      string `gorm:"size:64"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
	Stats          *UserStat `gorm:"foreignKey:UserID"`
}

// Per-user progression counters
type UserStat struct {
	UserID             string `gorm:"primaryKey;size:36"`
	MasteryLevel       int    `gorm:"default:0"`
	UserLevel          int    `gorm:"default:1"`
	AnalysesCompleted  int    `gorm:"default:0"`
	QuizScore          int    `gorm:"default:0"`
	QuizCorrect        int    `gorm:"default:0"`
	QuizAnswered       int    `gorm:"default:0"`
	BadgesEarned       int    `gorm:"default:0"`
	BiasDetection      int    `gorm:"default:0"`
	SourceVerification int    `gorm:"default:0"`
	FallacySpotting    int    `gorm:"default:0"`
	EmotionalLanguage  int    `gorm:"default:0"`
	UpdatedAt          time.Time
}

// Completed analyses, one row per request
type AnalysisRecord struct {
	ID             uint64 `gorm:"primaryKey"`
	UserID         string `gorm:"index;size:36"`
	Excerpt        string `gorm:"size:512;not null"`
	FinalScore     float64
	PrimaryVerdict string `gorm:"size:32"`
	RiskLevel      string `gorm:"size:16"`
	Confidence     string `gorm:"size:16"`
	Method         string `gorm:"size:16"` // detector|llm
	Result         string `gorm:"type:text"`
	CreatedAt      time.Time
	User           User `gorm:"foreignKey:UserID"`
}

// Quiz answers, one row per graded submission
type QuizRecord struct {
	ID        uint64 `gorm:"primaryKey"`
	UserID    string `gorm:"index;size:36"`
	Topic     string `gorm:"size:32"`
	Question  string `gorm:"type:text"`
	Answer    string `gorm:"size:8"`
	Correct   bool
	Points    int
	CreatedAt time.Time
	User      User `gorm:"foreignKey:UserID"`
}

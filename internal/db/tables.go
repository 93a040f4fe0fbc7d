package db

import "os"

func MentorsTableName() string {
	return os.Getenv("MENTORS_TABLE_NAME")
}

func StartupsTableName() string {
	return os.Getenv("STARTUPS_TABLE_NAME")
}

func SessionsTableName() string {
	return os.Getenv("SESSIONS_TABLE_NAME")
}

func PitchDecksBucketName() string {
	return os.Getenv("BUCKET_NAME")
}

func UserPoolID() string {
	return os.Getenv("USER_POOL_ID")
}

func UserPoolClientID() string {
	return os.Getenv("USER_POOL_CLIENT_ID")
}

func OtpSenderAddress() string {
	return os.Getenv("OTP_SENDER_ADDRESS")
}

package mail

type LeadEmailData struct {
	AssigneeName string
	LeadName     string
	Contact      string
	Email        string
	Status       string
	Interest     string
	Source       string
	UpdatedAt    string
}

type EmailSender struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

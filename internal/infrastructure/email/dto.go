package email

// MetaItem is one label/value row of the summary table in an email.
type MetaItem struct {
	Label string
	Value string
}

// Message is the content of a transactional email before it is laid out.
type Message struct {
	Subject    string
	Greeting   string
	Paragraphs []string
	Meta       []MetaItem
	ButtonText string
	ButtonURL  string
	Footer     string
}

package contact

// ContactRequest represents a contact form submission
type ContactRequest struct {
	FirstName string `form:"first_name" json:"first_name" binding:"required,singleline,max=100"`
	LastName  string `form:"last_name" json:"last_name" binding:"required,singleline,max=100"`
	Email     string `form:"email" json:"email" binding:"required,email,max=255"`
	Message   string `form:"message" json:"message" binding:"required,max=5000"`
}

// NewsletterRequest represents a newsletter subscription
type NewsletterRequest struct {
	Email string `form:"email" json:"email" binding:"required,email,max=255"`
}

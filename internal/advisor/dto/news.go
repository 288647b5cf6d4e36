package dto

// NewsArticle is a headline with its short description.
type NewsArticle struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// NewsAPIResponse is the JSON body of the news API.
type NewsAPIResponse struct {
	Articles []struct {
		Title       string `json:"title"`
		Description string `json:"description"`
	} `json:"articles"`
}

package entity

// ExtractionRequest é o conteúdo bruto enviado ao gateway. Em geral só um dos dois vem preenchido.
type ExtractionRequest struct {
	Text      string
	Image     []byte
	ImageMIME string
}

func (r ExtractionRequest) HasImage() bool {
	return len(r.Image) > 0
}

// ExtractionCandidate é o que o gateway de extração devolve, ainda não validado.
type ExtractionCandidate struct {
	Phone       string `json:"phone"`
	CompanyName string `json:"companyName"`
	ProductName string `json:"productName"`
}

type ExtractionResult struct {
	Leads []ExtractionCandidate `json:"leads"`
}

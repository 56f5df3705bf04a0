package crossref

// workResponse is the envelope of GET /works/{doi}.
type workResponse struct {
	Status  string `json:"status"`
	Message *Work  `json:"message"`
}

// Work is the subset of a CrossRef work record used to build a citation.
type Work struct {
	DOI            string   `json:"DOI"`
	URL            string   `json:"URL"`
	Type           string   `json:"type"`
	Title          []string `json:"title"`
	ContainerTitle []string `json:"container-title"`
	Publisher      string   `json:"publisher"`
	Author         []Author `json:"author"`
	Published      *Date    `json:"published"`
	Issued         *Date    `json:"issued"`
	Volume         string   `json:"volume"`
	Issue          string   `json:"issue"`
	Page           string   `json:"page"`
	Abstract       string   `json:"abstract"`
}

// Author is a CrossRef contributor. Organizations carry only Name.
type Author struct {
	Given       string        `json:"given"`
	Family      string        `json:"family"`
	Name        string        `json:"name"`
	Affiliation []Affiliation `json:"affiliation"`
}

// Affiliation is an institution attached to an author.
type Affiliation struct {
	Name string `json:"name"`
}

// Date is CrossRef's partial date: [[year, month, day]].
type Date struct {
	DateParts [][]int `json:"date-parts"`
}

// Year returns the first date part, or 0 when absent.
func (d *Date) Year() int {
	if d == nil || len(d.DateParts) == 0 || len(d.DateParts[0]) == 0 {
		return 0
	}
	return d.DateParts[0][0]
}

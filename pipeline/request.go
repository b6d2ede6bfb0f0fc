package pipeline

type Request struct {
	Text string `json:"text"`
	Tid  string `json:"tid"`
}

// Pipeline tags the text of a request and sends back one JSON response. The
// channel is closed without a value when the response could not be built.
type Pipeline func(request Request) <-chan string

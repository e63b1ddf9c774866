package mutate

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Response is the tagged result handed to the CLI and web layers.
type Response[T any] struct {
	Status string   `json:"status"`
	Data   T        `json:"data,omitempty"`
	Errors []string `json:"errors,omitempty"`
}

func Respond[T any](data T, err error) Response[T] {
	if err != nil {
		return Response[T]{Status: StatusError, Errors: Messages(err)}
	}
	return Response[T]{Status: StatusSuccess, Data: data}
}

func (r Response[T]) OK() bool { return r.Status == StatusSuccess }

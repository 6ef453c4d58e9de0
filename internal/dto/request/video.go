package request

type UploadVideoRequest struct {
	Title string   `validate:"required,max=200"`
	Tags  []string `validate:"max=20,dive,max=50"`
}

package model

// MessageKeyTopDevs là key của message TopicContribution gửi tới Kafka
const MessageKeyTopDevs = "top_devs"

// TopDevsMessage là cấu trúc dữ liệu gửi tới Kafka khi crawler chạy ở
// chế độ publish thay vì ghi thẳng vào store
type TopDevsMessage struct {
	Document TopicContribution `json:"document"`
}

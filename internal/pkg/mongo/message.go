package mongo

import (
	"time"
)

// Message MongoDB 私信明细模型
type Message struct {
	ID             string    `bson:"_id,omitempty" json:"id"`
	ConversationID uint64    `bson:"conversation_id" json:"conversationId"` // 关联 MySQL 的会话 ID
	SenderID       uint64    `bson:"sender_id" json:"senderId"`
	MsgType        int       `bson:"msg_type" json:"msgType"` // 1-文本, 2-附件, 3-撤回
	Content        string    `bson:"content" json:"content"`
	Attachment     *Attach   `bson:"attachment,omitempty" json:"attachment"`
	Seq            uint64    `bson:"seq" json:"seq"` // 会话内唯一绝对序号 (来自 MySQL)
	ReplyTo        uint64    `bson:"reply_to,omitempty" json:"replyTo"`
	CreatedAt      time.Time `bson:"created_at" json:"createdAt"`
}

// Attach 私信附件（简历、路演稿等文件引用）
type Attach struct {
	MimeType string `bson:"mime_type" json:"mime_type"`
	FileKey  string `bson:"file_key" json:"file_key"`
	FileName string `bson:"file_name" json:"file_name"`
	Size     int64  `bson:"size" json:"size"`
}

package constant

// Socket events, client to server.
const (
	ChatEventRequestHistory = "request_chat_history"
	ChatEventSendMessage    = "send_message"
)

// Socket events, server to client.
const (
	ChatEventHistory        = "chat_history"
	ChatEventReceiveMessage = "receive_message"
)

// MaxHistoryLimit is the largest history window a client can receive.
const MaxHistoryLimit = 50

const (
	ScreenshotCleanupTopic = "screenshot.cleanup"
	ActivityDurableName    = "activity-log"
)

const (
	ScreenshotDir = "screenshots"
	AvatarDir     = "profile_pictures"
)

// MaxUploadSize caps screenshots and profile pictures.
const MaxUploadSize = 5 << 20

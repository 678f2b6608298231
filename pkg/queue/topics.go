package queue

// 主题命名规范：lv.<域>.<动作>，尽量稳定且向后兼容.
// 域：image(图片)、property(房源)
// 动作：stored/rejected/deleted、created/updated/deleted

const (
	// 图片领域.
	TopicImageStored   = "lv.image.stored"   // 图片通过校验并写入对象存储，元数据已入库
	TopicImageRejected = "lv.image.rejected" // 图片被拒绝（扩展名、MIME、大小或签名不符）
	TopicImageDeleted  = "lv.image.deleted"  // 图片被清理任务删除

	// 房源领域.
	TopicPropertyCreated = "lv.property.created"
	TopicPropertyUpdated = "lv.property.updated"
	TopicPropertyDeleted = "lv.property.deleted"
)

// 主题分组.
var (
	ImageTopics = []string{TopicImageStored, TopicImageRejected, TopicImageDeleted}

	PropertyTopics = []string{TopicPropertyCreated, TopicPropertyUpdated, TopicPropertyDeleted}
)

// AllTopics 返回全部主题.
func AllTopics() []string {
	out := make([]string, 0, len(ImageTopics)+len(PropertyTopics))
	out = append(out, ImageTopics...)

	return append(out, PropertyTopics...)
}

package form

import (
	"errors"
	"fmt"
)

type Field string

const (
	FieldUsername Field = "username"
	FieldEmail    Field = "email"
	FieldPhone    Field = "phone"
	FieldPassword Field = "password"
	FieldImage    Field = "image"
)

var ErrUnknownField = errors.New("unknown field")

// Attachment 选中的头像文件
type Attachment struct {
	Filename string
	Data     []byte
}

// Draft 表单中尚未提交的内容，只存在于本次表单会话
type Draft struct {
	Username string
	Email    string
	Phone    string
	Password string
	Image    *Attachment // 未选择时为 nil
}

func (d Draft) clone() Draft {
	if d.Image != nil {
		d.Image = &Attachment{
			Filename: d.Image.Filename,
			Data:     append([]byte(nil), d.Image.Data...),
		}
	}
	return d
}

// with 返回只修改了一个文本字段的新草稿
func (d Draft) with(field Field, value string) (Draft, error) {
	switch field {
	case FieldUsername:
		d.Username = value
	case FieldEmail:
		d.Email = value
	case FieldPhone:
		d.Phone = value
	case FieldPassword:
		d.Password = value
	case FieldImage:
		return d, fmt.Errorf("%s is a file field", field)
	default:
		return d, fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	return d, nil
}

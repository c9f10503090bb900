// Package models はブログのドメインモデルを定義します。
//
// エンティティ同士は ID だけで参照し合い、相互参照のオブジェクトは持ちません。
// 表示用に著者名などが必要な場合は storage 層が JOIN した View 型を返します。
package models

import "time"

// PostDateLayout は記事の日付表示に使うフォーマットです（例: "October 16, 2026"）。
const PostDateLayout = "January 02, 2006"

// User は登録ユーザーです。
type User struct {
	ID           uint      `gorm:"primaryKey"`
	Email        string    `gorm:"size:250;not null;uniqueIndex"`
	PasswordHash string    `gorm:"column:password_hash;not null"`
	Username     string    `gorm:"size:50;not null"`
	IsAdmin      bool      `gorm:"not null;default:false"`
	CreatedAt    time.Time
}

// TableName は users テーブルを指定します。
func (User) TableName() string { return "users" }

// Post はブログ記事です。
type Post struct {
	ID        uint      `gorm:"primaryKey"`
	AuthorID  uint      `gorm:"not null;index"`
	Author    *User     `gorm:"foreignKey:AuthorID;constraint:OnDelete:RESTRICT" json:"-"`
	Title     string    `gorm:"size:250;not null;uniqueIndex"`
	Subtitle  string    `gorm:"size:250;not null"`
	Date      string    `gorm:"size:250;not null"`
	Body      string    `gorm:"type:text;not null"`
	ImgURL    string    `gorm:"column:img_url;size:250;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName は blog_posts テーブルを指定します。
func (Post) TableName() string { return "blog_posts" }

// Comment は記事へのコメントです。
type Comment struct {
	ID           uint      `gorm:"primaryKey"`
	CommenterID  uint      `gorm:"not null;index"`
	Commenter    *User     `gorm:"foreignKey:CommenterID;constraint:OnDelete:RESTRICT" json:"-"`
	ParentPostID uint      `gorm:"not null;index"`
	ParentPost   *Post     `gorm:"foreignKey:ParentPostID;constraint:OnDelete:CASCADE" json:"-"`
	Text         string    `gorm:"type:text;not null"`
	CreatedAt    time.Time
}

// TableName は comments テーブルを指定します。
func (Comment) TableName() string { return "comments" }

// PostView は著者名を付けた記事の表示用モデルです。
type PostView struct {
	Post
	AuthorName string
}

// CommentView はコメント投稿者の情報を付けた表示用モデルです。
type CommentView struct {
	Comment
	CommenterName  string
	CommenterEmail string
}

// PostInput は記事の作成・編集フォームから受け取る値です。
type PostInput struct {
	Title    string
	Subtitle string
	Body     string
	ImgURL   string
	AuthorID uint
}

// Package token はセッショントークン（JWT）の発行を提供する。
//
// Core Serviceで検証済みのユーザー情報（ID・名前・ロール）をクレームとして
// 埋め込み、HS256で署名したステートレスなトークンを生成する。失効リストは
// 持たず、有効期限切れのみがトークンの無効化手段となる。
package token

package ai

import (
	"encoding/json"
	"fmt"
	"strings"
)

const snippetRunes = 500

func baseInstruction(p Profile) string {
	var b strings.Builder
	fmt.Fprintf(&b, "あなたは「%s」の非常に有能でプロフェッショナルなアシスタントです。\n", p.OfficeName)
	b.WriteString("【あなたの振る舞い】\n")
	fmt.Fprintf(&b, "- コミュニケーションのトーンは「%s」に設定されています。常にそのトーンを維持してください。\n", p.CommunicationStyle)
	b.WriteString("- 常に丁寧かつ明確に対応してください。\n\n")

	if len(p.Knowledge) > 0 {
		b.WriteString("【ナレッジベース】\n以下の情報を最優先で参照し、質問に答える際に利用してください:\n")
		for _, f := range p.Knowledge {
			fmt.Fprintf(&b, "- %s: %s\n", f.Key, f.Value)
		}
		b.WriteString("\n")
	}

	b.WriteString("【イベント基本情報】\n")
	fmt.Fprintf(&b, "- イベント名: %s\n", p.EventName)
	fmt.Fprintf(&b, "- 事務局名: %s\n", p.OfficeName)
	fmt.Fprintf(&b, "- イベント概要: %s\n", p.EventSummary)
	fmt.Fprintf(&b, "- 公式サイト: %s", p.WebsiteURL)
	return b.String()
}

func analysisPrompt(e EmailDigest, statuses []StatusOption) Prompt {
	attachments := "添付ファイル: なし"
	if len(e.Attachments) > 0 {
		attachments = "添付ファイル: " + strings.Join(e.Attachments, ", ")
	}
	choices := make([]string, len(statuses))
	for i, s := range statuses {
		choices[i] = fmt.Sprintf("\"%s\"（%s）", s.Value, s.Label)
	}

	user := fmt.Sprintf(`あなたはイベント事務局の優秀なアシスタントです。
以下のメールを分析し、指定されたJSON形式で結果を返してください。

【分析対象のメール情報】
件名: %s
本文:
---
%s
---
%s

【指示】
1. status: メールの状態を %s のいずれかで判断してください。値は英字のまま返してください。
2. tags: メールの内容を要約する、1〜3個の短いキーワードを小文字で抽出してください。
3. suggestedTasks: メールから発生する、実行すべき具体的なタスクを抽出してください。
   - 依頼、指示、期限に関する記述（例:「〜をお願いします」「明日中に」）は必ずタスクとして抽出してください。
   - 誰が読んでも何をすべきか明確にわかる、具体的かつ簡潔なタスク名を付けてください。
   - 添付ファイル名や件名も考慮してください。
   - タスクが全くない場合のみ、空配列 [] を返してください。

【出力フォーマット】
{"status": "string", "tags": ["string"], "suggestedTasks": [{"title": "string", "details": "string"}]}`,
		e.Subject, e.Body, attachments, strings.Join(choices, ", "))

	return Prompt{User: user, JSON: true, Temperature: 0.1}
}

func replyPrompt(req ReplyRequest) Prompt {
	system := fmt.Sprintf(`%s
【役割】
これから「%sさん」からのメールに返信します。与えられた指示と元のメールの文脈に基づいて、適切な返信を作成してください。指示がない場合は、元のメールの内容から最も適切と思われる一般的な返信を生成してください。

【重要】
返信の最後には、必ず以下の署名をそのままの形で挿入してください。
---署名---
%s
---署名終---`, baseInstruction(req.Profile), req.RecipientName, req.Profile.Signature)

	var b strings.Builder
	if strings.TrimSpace(req.Instruction) != "" {
		fmt.Fprintf(&b, "指示: \"%s\"\n\n", strings.TrimSpace(req.Instruction))
	}
	fmt.Fprintf(&b, "元のメール:\n---\n%s\n---\n", req.Email.Body)
	if len(req.Email.Attachments) > 0 {
		b.WriteString("\nこちらのメールには以下のファイルが添付されています:\n")
		for _, a := range req.Email.Attachments {
			fmt.Fprintf(&b, "- %s\n", a)
		}
	}
	b.WriteString("\nこの情報に基づいて、返信を作成してください。")

	return Prompt{System: system, User: b.String(), Temperature: 0.6}
}

func bulkDraftPrompt(instruction string, p Profile) Prompt {
	system := baseInstruction(p) + `
【役割】
一括送信用のプロフェッショナルなメールの下書きを作成してください。
レスポンスは、「subject」（文字列）と「body」（文字列）の2つのキーを持つJSONオブジェクトでなければなりません。
本文では、各受信者宛にメールをパーソナライズするために、プレースホルダー「{{name}}」を使用してください。
【重要】
- 件名にはイベント名を必ず含めてください。
- 本文の最後には共通署名を必ず含めてください。`
	return Prompt{
		System:      system,
		User:        "以下の目的に合ったメールの下書きを作成してください: " + instruction,
		JSON:        true,
		Temperature: 0.6,
	}
}

func templateDraftPrompt(instruction string, p Profile) Prompt {
	system := baseInstruction(p) + `
【役割】
ユーザーの指示に基づき、ビジネス用の再利用可能なメールテンプレートを作成してください。
レスポンスは、「title」（文字列、テンプレートのタイトル）、「body」（文字列、テンプレートの本文）、「tags」（文字列の配列、関連する1〜3個の短いキーワード）の3つのキーを持つJSONオブジェクトでなければなりません。
本文では、受信者の名前を挿入するためのプレースホルダーとして「{{name}}」を使用してください。`
	return Prompt{
		System:      system,
		User:        fmt.Sprintf("以下の指示に合ったメールテンプレートを作成してください: \"%s\"", instruction),
		JSON:        true,
		Temperature: 0.6,
	}
}

func tagsPrompt(title, body string) Prompt {
	return Prompt{
		System: `ユーザーが提供するメールテンプレートのタイトルと本文に基づいて、関連性の高いキーワードタグを1〜3個生成してください。
レスポンスは、「tags」（文字列の配列）という単一のキーを持つJSONオブジェクトでなければなりません。タグは短く、小文字にしてください。`,
		User:        fmt.Sprintf("タイトル: %s\n本文:\n---\n%s\n---", title, body),
		JSON:        true,
		Temperature: 0.3,
	}
}

func searchPrompt(query string, corpus []EmailDigest) (Prompt, error) {
	entries := make([]EmailDigest, len(corpus))
	for i, e := range corpus {
		e.Body = truncateRunes(e.Body, snippetRunes)
		entries[i] = e
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return Prompt{}, err
	}
	return Prompt{
		System: `You are an intelligent email search assistant.
Analyze the user's query and the provided list of emails.
The emails are in a JSON array format. Each email has an 'id', 'subject', 'sender', and 'body'.
Your task is to identify the emails that are most relevant to the user's query, most relevant first.
You MUST return a JSON object with a single key "emailIds", which is an array of strings representing the IDs of the relevant emails.
If no emails are relevant, return an empty array.
Return ONLY the JSON object.`,
		User:        fmt.Sprintf("User Query: %q\n\nEmails:\n---\n%s\n---", query, data),
		JSON:        true,
		Temperature: 0.1,
	}, nil
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

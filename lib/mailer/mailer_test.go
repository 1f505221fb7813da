package mailer

import (
	"context"
	"errors"
	"net/smtp"
	"testing"

	"github.com/jordan-wright/email"
	"github.com/stretchr/testify/require"
)

func TestGuessServer(t *testing.T) {
	testCases := []struct {
		address string
		server  string
		ok      bool
	}{
		{address: "someone@gmail.com", server: "smtp.gmail.com:587", ok: true},
		{address: "Someone@GMAIL.com", server: "smtp.gmail.com:587", ok: true},
		{address: "someone@yahoo.com.au", server: "plus.smtp.mail.yahoo.com:465", ok: true},
		{address: "someone@live.com", server: "smtp.office365.com:587", ok: true},
		{address: "someone@hotmail.com", server: "smtp.office365.com:587", ok: true},
		{address: "someone@outlook.com", server: "smtp.office365.com:587", ok: true},
		{address: "abcd1234@uni.sydney.edu.au", server: "smtp.office365.com:587", ok: true},
		{address: "someone@example.com", ok: false},
		{address: "not an address", ok: false},
	}

	for _, test := range testCases {
		server, ok := GuessServer(test.address)
		require.Equal(t, test.ok, ok, test.address)
		require.Equal(t, test.server, server, test.address)
	}
}

type sent struct {
	mail        *email.Email
	addr        string
	auth        smtp.Auth
	implicitTls bool
}

func fakeMailer(options Options, fail func(call int, auth smtp.Auth) error) (Mailer, *[]sent) {
	var calls []sent
	m := NewMailer(options)
	m.send = func(mail *email.Email, addr string, auth smtp.Auth, implicitTls bool) error {
		calls = append(calls, sent{mail: mail, addr: addr, auth: auth, implicitTls: implicitTls})
		if fail != nil {
			return fail(len(calls), auth)
		}
		return nil
	}
	return m, &calls
}

func TestSend(t *testing.T) {
	m, calls := fakeMailer(Options{
		Server:   "smtp.gmail.com:587",
		Address:  "someone@gmail.com",
		Password: "hunter2",
	}, nil)

	err := m.Send(context.Background(), Subject, "Marks are out!")
	require.NoError(t, err)
	require.Len(t, *calls, 1)

	call := (*calls)[0]
	require.Equal(t, "smtp.gmail.com:587", call.addr)
	require.False(t, call.implicitTls)
	require.NotNil(t, call.auth)
	require.Equal(t, "someone@gmail.com", call.mail.From)
	require.Equal(t, []string{"someone@gmail.com"}, call.mail.To)
	require.Equal(t, Subject, call.mail.Subject)
	require.Equal(t, "Marks are out!", string(call.mail.Text))
}

func TestSendImplicitTls(t *testing.T) {
	m, calls := fakeMailer(Options{
		Server:  "plus.smtp.mail.yahoo.com:465",
		Address: "someone@yahoo.com",
	}, nil)
	require.NoError(t, m.Send(context.Background(), Subject, "body"))
	require.True(t, (*calls)[0].implicitTls)
}

func TestSendWithoutAuth(t *testing.T) {
	m, calls := fakeMailer(Options{
		Server:  "localhost:25",
		Address: "someone@localhost",
	}, func(call int, auth smtp.Auth) error {
		if auth != nil {
			return errors.New("smtp: server doesn't support AUTH")
		}
		return nil
	})

	require.NoError(t, m.Send(context.Background(), Subject, "body"))
	require.Len(t, *calls, 2)
	require.Nil(t, (*calls)[1].auth)
}

func TestSendFailure(t *testing.T) {
	m, calls := fakeMailer(Options{
		Server:  "localhost:25",
		Address: "someone@localhost",
	}, func(call int, auth smtp.Auth) error {
		return errors.New("535 authentication failed")
	})
	require.Error(t, m.Send(context.Background(), Subject, "body"))
	require.Len(t, *calls, 1)

	m, _ = fakeMailer(Options{Server: "no-port", Address: "someone@localhost"}, nil)
	require.Error(t, m.Send(context.Background(), Subject, "body"))
}

func TestSendTest(t *testing.T) {
	m, calls := fakeMailer(Options{
		Server:  "smtp.gmail.com:587",
		Address: "someone@gmail.com",
	}, nil)

	code, err := m.SendTest(context.Background())
	require.NoError(t, err)
	require.Len(t, code, 8)
	require.Len(t, *calls, 1)

	body := string((*calls)[0].mail.Text)
	require.Contains(t, body, TestMessage)
	require.Contains(t, body, code)
}

package main

import (
	"context"

	"github.com/trezcool/chuo/core/user"
)

func (cli *commandLine) addUser(name, uname, email, pwd, role string) error {
	svc := user.NewService(cli.usrRepo, cli.mailSvc, cli.conf, cli.log)
	_, err := svc.Create(context.Background(), user.NewUser{
		Name:            name,
		Username:        uname,
		Email:           email,
		Role:            role,
		Password:        pwd,
		PasswordConfirm: pwd,
	})
	return err
}

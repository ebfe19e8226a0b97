package main

import (
	"context"

	"github.com/trezcool/chuo/core/user"
)

func (cli *commandLine) resetPassword(uname, pwd string) error {
	svc := user.NewService(cli.usrRepo, cli.mailSvc, cli.conf, cli.log)
	return svc.ResetPassword(context.Background(), uname, pwd)
}
